// Package service holds infrastructure services that sit between the
// application layer and persistence adapters.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// IDGenerator produces unique identifiers for new entities.
type IDGenerator interface {
	GenerateID() string
}

// IDGeneratorImpl implements IDGenerator with random UUIDs.
type IDGeneratorImpl struct{}

func NewIDGenerator() *IDGeneratorImpl {
	return &IDGeneratorImpl{}
}

func (g *IDGeneratorImpl) GenerateID() string {
	return uuid.New().String()
}

// NotificationService creates and maintains resolution notifications.
// NotifyResolved is called by the resolve handler after a successful
// status transition, so at most one notification exists per transition.
type NotificationService struct {
	notifications notification.Repository
	counter       notification.UnreadCounter
	ids           IDGenerator
	events        shared.EventPublisher
	logger        *slog.Logger
}

// NewNotificationService creates a new NotificationService.
// counter and events may be nil; both are optional side channels.
func NewNotificationService(
	notifications notification.Repository,
	counter notification.UnreadCounter,
	ids IDGenerator,
	events shared.EventPublisher,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notifications: notifications,
		counter:       counter,
		ids:           ids,
		events:        events,
		logger:        logger,
	}
}

// NotifyResolved creates the "doubt resolved" notification for the
// doubt's owner. The notification text captures the title at the time
// of resolution.
func (s *NotificationService) NotifyResolved(ctx context.Context, d *doubt.Doubt) (*notification.Notification, error) {
	n, err := notification.NewResolvedNotification(
		notification.NotificationID(s.ids.GenerateID()),
		d.OwnerID,
		d.ID,
		d.Title,
	)
	if err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("notification created",
		"notification_id", n.ID,
		"recipient_id", n.RecipientID,
		"doubt_id", n.DoubtID,
	)

	if s.counter != nil {
		if err := s.counter.Increment(ctx, n.RecipientID); err != nil {
			s.logger.Warn("failed to bump unread counter", "recipient_id", n.RecipientID, "error", err)
		}
	}

	if s.events != nil {
		event := shared.NewNotificationCreatedEvent(string(n.ID), string(n.RecipientID), string(n.DoubtID))
		if err := s.events.Publish(event); err != nil {
			s.logger.Warn("failed to publish notification event", "error", err)
		}
	}

	return n, nil
}

// MarkRead marks a notification read on behalf of its recipient and
// keeps the unread counter in sync. The counter is only decremented
// when this call actually flipped the notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, id notification.NotificationID, recipient identity.UserID) (*notification.Notification, error) {
	existing, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !existing.BelongsTo(recipient) {
		return nil, shared.ErrNotificationNotRecipient
	}

	wasUnread := !existing.IsRead

	n, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	if wasUnread && s.counter != nil {
		if err := s.counter.Decrement(ctx, recipient); err != nil {
			s.logger.Warn("failed to decrement unread counter", "recipient_id", recipient, "error", err)
		}
	}

	if s.events != nil {
		event := shared.NewNotificationReadEvent(string(n.ID), string(n.RecipientID))
		if err := s.events.Publish(event); err != nil {
			s.logger.Warn("failed to publish notification read event", "error", err)
		}
	}

	return n, nil
}

// CountUnread returns the number of unread notifications, serving from
// the counter cache when warm and falling back to the repository.
func (s *NotificationService) CountUnread(ctx context.Context, recipient identity.UserID) (int, error) {
	if s.counter != nil {
		count, hit, err := s.counter.Get(ctx, recipient)
		if err != nil {
			s.logger.Warn("unread counter read failed", "recipient_id", recipient, "error", err)
		} else if hit {
			return count, nil
		}
	}

	count, err := s.notifications.CountUnread(ctx, recipient)
	if err != nil {
		return 0, err
	}

	if s.counter != nil {
		if err := s.counter.Set(ctx, recipient, count); err != nil {
			s.logger.Warn("failed to warm unread counter", "recipient_id", recipient, "error", err)
		}
	}

	return count, nil
}
