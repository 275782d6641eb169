package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST NOTIFICATIONS QUERY
// A user sees only their own notifications, newest first.
// ══════════════════════════════════════════════════════════════════════════════

// ListNotificationsQuery contains list parameters.
type ListNotificationsQuery struct {
	// Actor is the authenticated caller whose notifications are listed.
	Actor *identity.Identity

	// UnreadOnly restricts to unread notifications.
	UnreadOnly bool

	// Offset is the pagination offset.
	Offset int

	// Limit is the maximum number of results.
	Limit int
}

// Validate validates the query.
func (q ListNotificationsQuery) Validate() error {
	if q.Actor == nil {
		return errors.New("list_notifications: actor is required")
	}
	if q.Offset < 0 {
		return errors.New("list_notifications: offset cannot be negative")
	}
	return nil
}

// ListNotificationsResult contains the notifications page.
type ListNotificationsResult struct {
	Notifications []*notification.Notification
}

// ListNotificationsHandler handles the ListNotificationsQuery.
type ListNotificationsHandler struct {
	notificationRepo notification.Repository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(notificationRepo notification.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{notificationRepo: notificationRepo}
}

// Handle executes the list notifications query.
func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (*ListNotificationsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("notification", "List", shared.ErrValidation, "validation failed", err)
	}

	opts := notification.DefaultListOptions().WithOffset(q.Offset)
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}
	if q.UnreadOnly {
		opts = opts.WithUnreadOnly()
	}

	notifications, err := h.notificationRepo.GetByRecipient(ctx, q.Actor.UserID, opts)
	if err != nil {
		return nil, fmt.Errorf("list_notifications: %w", err)
	}

	return &ListNotificationsResult{Notifications: notifications}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD COUNT QUERY
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCountQuery fetches the number of unread notifications.
type UnreadCountQuery struct {
	// Actor is the authenticated caller.
	Actor *identity.Identity
}

// Validate validates the query.
func (q UnreadCountQuery) Validate() error {
	if q.Actor == nil {
		return errors.New("unread_count: actor is required")
	}
	return nil
}

// UnreadCountResult contains the unread count.
type UnreadCountResult struct {
	Count int
}

// UnreadCounter serves unread counts, optionally cache-backed.
type UnreadCounter interface {
	CountUnread(ctx context.Context, recipient identity.UserID) (int, error)
}

// UnreadCountHandler handles the UnreadCountQuery.
type UnreadCountHandler struct {
	counter UnreadCounter
}

// NewUnreadCountHandler creates a new UnreadCountHandler.
func NewUnreadCountHandler(counter UnreadCounter) *UnreadCountHandler {
	return &UnreadCountHandler{counter: counter}
}

// Handle executes the unread count query.
func (h *UnreadCountHandler) Handle(ctx context.Context, q UnreadCountQuery) (*UnreadCountResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("notification", "CountUnread", shared.ErrValidation, "validation failed", err)
	}

	count, err := h.counter.CountUnread(ctx, q.Actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("unread_count: %w", err)
	}

	return &UnreadCountResult{Count: count}, nil
}
