package notification

import (
	"context"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для уведомлений.
type Repository interface {
	// Create сохраняет новое уведомление.
	Create(ctx context.Context, n *Notification) error

	// GetByID возвращает уведомление по ID.
	// Возвращает ErrNotFound, если уведомление не найдено.
	GetByID(ctx context.Context, id NotificationID) (*Notification, error)

	// GetByRecipient возвращает уведомления пользователя, новые первыми.
	GetByRecipient(ctx context.Context, recipientID identity.UserID, opts ListOptions) ([]*Notification, error)

	// MarkRead помечает уведомление прочитанным. Идемпотентно.
	// Возвращает ErrNotFound, если уведомление не найдено.
	MarkRead(ctx context.Context, id NotificationID) (*Notification, error)

	// CountUnread возвращает количество непрочитанных уведомлений пользователя.
	CountUnread(ctx context.Context, recipientID identity.UserID) (int, error)
}

// ListOptions содержит параметры пагинации и фильтрации.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int

	// UnreadOnly - вернуть только непрочитанные уведомления.
	UnreadOnly bool
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithUnreadOnly включает фильтр непрочитанных.
func (o ListOptions) WithUnreadOnly() ListOptions {
	o.UnreadOnly = true
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD COUNTER CACHE
// Быстрый счётчик непрочитанных уведомлений (реализуется через Redis).
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCounter определяет операции кеша счётчика непрочитанных уведомлений.
// Кеш вспомогательный: при промахе источником истины остаётся Repository.
type UnreadCounter interface {
	// Get возвращает закешированное количество непрочитанных.
	// Второй результат false означает промах кеша.
	Get(ctx context.Context, recipientID identity.UserID) (int, bool, error)

	// Set сохраняет количество непрочитанных.
	Set(ctx context.Context, recipientID identity.UserID, count int) error

	// Increment увеличивает счётчик на единицу.
	Increment(ctx context.Context, recipientID identity.UserID) error

	// Decrement уменьшает счётчик на единицу, не опускаясь ниже нуля.
	Decrement(ctx context.Context, recipientID identity.UserID) error

	// Invalidate сбрасывает счётчик пользователя.
	Invalidate(ctx context.Context, recipientID identity.UserID) error
}
