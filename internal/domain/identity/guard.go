package identity

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUserID - пустой или некорректный идентификатор пользователя.
	ErrInvalidUserID = errors.New("invalid user id: must be non-empty")

	// ErrUnknownRole - роль вне множества {student, mentor}.
	ErrUnknownRole = errors.New("unknown role")

	// ErrRoleMismatch - у пользователя нет требуемой роли.
	ErrRoleMismatch = errors.New("role mismatch: operation not permitted for this role")

	// ErrNotOwner - ресурс принадлежит другому пользователю.
	ErrNotOwner = errors.New("not the owner of this resource")
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCESS GUARDS
// ══════════════════════════════════════════════════════════════════════════════

// RequireRole проверяет, что личность имеет требуемую роль.
// Порядок проверок в обработчиках: существование ресурса, затем роль,
// затем владение, затем состояние.
func RequireRole(actor *Identity, required Role) error {
	if actor == nil {
		return ErrInvalidUserID
	}
	if actor.Role != required {
		return fmt.Errorf("%w: need %s, have %s", ErrRoleMismatch, required, actor.Role)
	}
	return nil
}

// RequireOwnership проверяет, что ресурс принадлежит данному пользователю.
func RequireOwnership(actor *Identity, ownerID UserID) error {
	if actor == nil {
		return ErrInvalidUserID
	}
	if !actor.Owns(ownerID) {
		return ErrNotOwner
	}
	return nil
}

// RequireStudentOwner объединяет две частые проверки: актор - студент
// и ресурс принадлежит ему. Роль проверяется первой.
func RequireStudentOwner(actor *Identity, ownerID UserID) error {
	if err := RequireRole(actor, RoleStudent); err != nil {
		return err
	}
	return RequireOwnership(actor, ownerID)
}
