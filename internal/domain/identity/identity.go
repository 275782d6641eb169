// Package identity содержит доменную модель аутентифицированного пользователя.
// Регистрация и хранение учётных записей находятся вне системы - сюда
// попадает только проверенная личность из токена доступа.
package identity

import (
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// UserID представляет уникальный идентификатор пользователя.
// Формат непрозрачен для системы: сравнение только на точное равенство.
type UserID string

// IsValid проверяет, что идентификатор непустой.
func (u UserID) IsValid() bool {
	return strings.TrimSpace(string(u)) != ""
}

// String возвращает строковое представление идентификатора.
func (u UserID) String() string {
	return string(u)
}

// Role определяет роль пользователя в системе.
type Role string

const (
	// RoleStudent - студент, может создавать и переоткрывать свои вопросы.
	RoleStudent Role = "student"
	// RoleMentor - ментор, может решать вопросы и оставлять комментарии.
	RoleMentor Role = "mentor"
)

// IsValid проверяет, что роль известна системе.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleMentor:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}

// ParseRole разбирает строку в роль. Роли вне закрытого множества отклоняются.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: IDENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Identity - проверенная личность текущего запроса.
// Создаётся только из успешно верифицированного токена.
type Identity struct {
	// UserID - идентификатор пользователя из токена.
	UserID UserID

	// Role - роль пользователя (student или mentor).
	Role Role

	// IssuedAt - время выпуска токена.
	IssuedAt time.Time

	// ExpiresAt - время истечения токена.
	ExpiresAt time.Time
}

// NewIdentity создаёт личность с валидацией полей.
func NewIdentity(userID UserID, role Role) (*Identity, error) {
	if !userID.IsValid() {
		return nil, ErrInvalidUserID
	}
	if !role.IsValid() {
		return nil, ErrUnknownRole
	}

	return &Identity{
		UserID: userID,
		Role:   role,
	}, nil
}

// IsStudent возвращает true, если пользователь - студент.
func (i *Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// IsMentor возвращает true, если пользователь - ментор.
func (i *Identity) IsMentor() bool {
	return i.Role == RoleMentor
}

// Owns проверяет, принадлежит ли ресурс с данным владельцем этому пользователю.
func (i *Identity) Owns(ownerID UserID) bool {
	return i.UserID == ownerID
}

// String возвращает строковое представление для логирования.
func (i *Identity) String() string {
	return fmt.Sprintf("Identity{UserID: %s, Role: %s}", i.UserID, i.Role)
}
