package command

import (
	"context"
	"errors"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK NOTIFICATION READ COMMAND
// The recipient acknowledges a notification. Idempotent: marking an
// already read notification succeeds and keeps the original read time.
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadCommand contains the data to acknowledge a notification.
type MarkNotificationReadCommand struct {
	// Actor is the authenticated caller.
	Actor *identity.Identity

	// NotificationID is the notification to mark read.
	NotificationID notification.NotificationID
}

// Validate validates the command.
func (c MarkNotificationReadCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("mark_notification_read: actor is required")
	}
	if !c.NotificationID.IsValid() {
		return errors.New("mark_notification_read: notification_id is required")
	}
	return nil
}

// MarkNotificationReadResult contains the updated notification.
type MarkNotificationReadResult struct {
	Notification *notification.Notification
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// NotificationReader marks notifications read on behalf of a recipient,
// enforcing that the caller is the recipient.
type NotificationReader interface {
	MarkRead(ctx context.Context, id notification.NotificationID, recipient identity.UserID) (*notification.Notification, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadHandler handles the MarkNotificationReadCommand.
type MarkNotificationReadHandler struct {
	reader NotificationReader
}

// NewMarkNotificationReadHandler creates a new MarkNotificationReadHandler.
func NewMarkNotificationReadHandler(reader NotificationReader) *MarkNotificationReadHandler {
	return &MarkNotificationReadHandler{reader: reader}
}

// Handle executes the mark notification read command.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) (*MarkNotificationReadResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("notification", "MarkRead", shared.ErrValidation, "validation failed", err)
	}

	n, err := h.reader.MarkRead(ctx, cmd.NotificationID, cmd.Actor.UserID)
	if err != nil {
		return nil, err
	}

	return &MarkNotificationReadResult{Notification: n}, nil
}
