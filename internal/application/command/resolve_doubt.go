package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESOLVE DOUBT COMMAND
// A mentor marks an open doubt as resolved. The transition is a
// compare-and-set at the repository level: when several mentors resolve
// the same doubt concurrently, exactly one of them wins and exactly one
// notification reaches the doubt's owner. The losers get a state
// transition error.
// ══════════════════════════════════════════════════════════════════════════════

// ResolveDoubtCommand contains the data to resolve a doubt.
type ResolveDoubtCommand struct {
	// Actor is the authenticated caller. Must be a mentor.
	Actor *identity.Identity

	// DoubtID is the doubt to resolve.
	DoubtID doubt.DoubtID
}

// Validate validates the command.
func (c ResolveDoubtCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("resolve_doubt: actor is required")
	}
	if !c.DoubtID.IsValid() {
		return errors.New("resolve_doubt: doubt_id is required")
	}
	return nil
}

// ResolveDoubtResult contains the resolved doubt and its notification.
type ResolveDoubtResult struct {
	Doubt        *doubt.Doubt
	Notification *notification.Notification
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// ResolvedNotifier creates the owner's notification after a resolution.
type ResolvedNotifier interface {
	NotifyResolved(ctx context.Context, d *doubt.Doubt) (*notification.Notification, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ResolveDoubtHandler handles the ResolveDoubtCommand.
type ResolveDoubtHandler struct {
	doubtRepo      doubt.Repository
	notifier       ResolvedNotifier
	eventPublisher shared.EventPublisher
}

// NewResolveDoubtHandler creates a new ResolveDoubtHandler.
func NewResolveDoubtHandler(doubtRepo doubt.Repository, notifier ResolvedNotifier, eventPublisher shared.EventPublisher) *ResolveDoubtHandler {
	return &ResolveDoubtHandler{
		doubtRepo:      doubtRepo,
		notifier:       notifier,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the resolve doubt command.
// Guard order: existence, then role, then state. A mentor resolving a
// missing doubt gets not-found; a student resolving an existing doubt
// gets forbidden even when the doubt is already resolved.
func (h *ResolveDoubtHandler) Handle(ctx context.Context, cmd ResolveDoubtCommand) (*ResolveDoubtResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "Resolve", shared.ErrValidation, "validation failed", err)
	}

	exists, err := h.doubtRepo.Exists(ctx, cmd.DoubtID)
	if err != nil {
		return nil, fmt.Errorf("resolve_doubt: existence check failed: %w", err)
	}
	if !exists {
		return nil, shared.ErrDoubtNotFound
	}

	if err := identity.RequireRole(cmd.Actor, identity.RoleMentor); err != nil {
		return nil, shared.WrapError("doubt", "Resolve", shared.ErrForbidden, "only mentors can resolve doubts", err)
	}

	d, err := h.doubtRepo.UpdateStatus(ctx, cmd.DoubtID, doubt.StatusOpen, doubt.StatusResolved, cmd.Actor.UserID)
	if err != nil {
		return nil, err
	}

	// Only the winning transition reaches this point, so the owner gets
	// exactly one notification per resolution.
	n, err := h.notifier.NotifyResolved(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("resolve_doubt: doubt resolved but notification failed: %w", err)
	}

	if h.eventPublisher != nil {
		event := shared.NewDoubtResolvedEvent(string(d.ID), string(d.OwnerID), string(cmd.Actor.UserID))
		event.NotificationID = string(n.ID)
		_ = h.eventPublisher.Publish(event)
	}

	return &ResolveDoubtResult{Doubt: d, Notification: n}, nil
}
