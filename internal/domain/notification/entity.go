// Package notification содержит доменную модель уведомления студента.
// Уведомление создаётся ровно один раз на каждый успешный переход
// вопроса в состояние "решён".
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// NotificationID представляет уникальный идентификатор уведомления.
type NotificationID string

// IsValid проверяет, что идентификатор непустой.
func (n NotificationID) IsValid() bool {
	return strings.TrimSpace(string(n)) != ""
}

// String возвращает строковое представление идентификатора.
func (n NotificationID) String() string {
	return string(n)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrRecipientRequired - уведомление без получателя.
	ErrRecipientRequired = errors.New("notification recipient is required")

	// ErrMessageRequired - уведомление с пустым текстом.
	ErrMessageRequired = errors.New("notification message is required")

	// ErrNotFound - уведомление не найдено.
	ErrNotFound = errors.New("notification not found")

	// ErrNotRecipient - уведомление принадлежит другому пользователю.
	ErrNotRecipient = errors.New("notification belongs to another user")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - уведомление студента о событии с его вопросом.
type Notification struct {
	// ID - уникальный идентификатор уведомления.
	ID NotificationID

	// RecipientID - студент, которому адресовано уведомление.
	RecipientID identity.UserID

	// DoubtID - вопрос, к которому относится уведомление.
	DoubtID doubt.DoubtID

	// Message - человекочитаемый текст уведомления.
	Message string

	// IsRead - прочитано ли уведомление получателем.
	IsRead bool

	// ReadAt - время первого прочтения (nil, пока не прочитано).
	ReadAt *time.Time

	// CreatedAt - время создания уведомления.
	CreatedAt time.Time
}

// NewResolvedNotification создаёт уведомление о решении вопроса.
// Текст формируется из заголовка вопроса на момент решения.
func NewResolvedNotification(id NotificationID, recipientID identity.UserID, doubtID doubt.DoubtID, doubtTitle string) (*Notification, error) {
	if !recipientID.IsValid() {
		return nil, ErrRecipientRequired
	}

	return &Notification{
		ID:          id,
		RecipientID: recipientID,
		DoubtID:     doubtID,
		Message:     fmt.Sprintf("Your doubt %q has been resolved.", doubtTitle),
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов ничего
// не меняет: время первого прочтения сохраняется.
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}

	now := time.Now().UTC()
	n.IsRead = true
	n.ReadAt = &now
}

// BelongsTo проверяет, адресовано ли уведомление данному пользователю.
func (n *Notification) BelongsTo(userID identity.UserID) bool {
	return n.RecipientID == userID
}

// String возвращает строковое представление для логирования.
func (n *Notification) String() string {
	return fmt.Sprintf("Notification{ID: %s, Recipient: %s, Doubt: %s, Read: %t}",
		n.ID, n.RecipientID, n.DoubtID, n.IsRead)
}

// Clone создаёт глубокую копию уведомления.
func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}

	clone := *n
	if n.ReadAt != nil {
		t := *n.ReadAt
		clone.ReadAt = &t
	}
	return &clone
}
