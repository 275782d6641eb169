package command

import (
	"context"
	"errors"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REOPEN DOUBT COMMAND
// The owning student reopens a resolved doubt. Reopening does not
// notify anyone; only the resolve transition produces a notification.
// ══════════════════════════════════════════════════════════════════════════════

// ReopenDoubtCommand contains the data to reopen a doubt.
type ReopenDoubtCommand struct {
	// Actor is the authenticated caller. Must be the student who owns the doubt.
	Actor *identity.Identity

	// DoubtID is the doubt to reopen.
	DoubtID doubt.DoubtID
}

// Validate validates the command.
func (c ReopenDoubtCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("reopen_doubt: actor is required")
	}
	if !c.DoubtID.IsValid() {
		return errors.New("reopen_doubt: doubt_id is required")
	}
	return nil
}

// ReopenDoubtResult contains the reopened doubt.
type ReopenDoubtResult struct {
	Doubt *doubt.Doubt
}

// ReopenDoubtHandler handles the ReopenDoubtCommand.
type ReopenDoubtHandler struct {
	doubtRepo      doubt.Repository
	eventPublisher shared.EventPublisher
}

// NewReopenDoubtHandler creates a new ReopenDoubtHandler.
func NewReopenDoubtHandler(doubtRepo doubt.Repository, eventPublisher shared.EventPublisher) *ReopenDoubtHandler {
	return &ReopenDoubtHandler{
		doubtRepo:      doubtRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the reopen doubt command.
// Guard order: existence, then role, then ownership, then state.
func (h *ReopenDoubtHandler) Handle(ctx context.Context, cmd ReopenDoubtCommand) (*ReopenDoubtResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "Reopen", shared.ErrValidation, "validation failed", err)
	}

	existing, err := h.doubtRepo.GetByID(ctx, cmd.DoubtID)
	if err != nil {
		return nil, err
	}

	if err := identity.RequireRole(cmd.Actor, identity.RoleStudent); err != nil {
		return nil, shared.WrapError("doubt", "Reopen", shared.ErrForbidden, "only students can reopen doubts", err)
	}

	if err := identity.RequireOwnership(cmd.Actor, existing.OwnerID); err != nil {
		return nil, shared.WrapError("doubt", "Reopen", shared.ErrForbidden, "not your doubt", err)
	}

	d, err := h.doubtRepo.UpdateStatus(ctx, cmd.DoubtID, doubt.StatusResolved, doubt.StatusOpen, cmd.Actor.UserID)
	if err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		event := shared.NewDoubtReopenedEvent(string(d.ID), string(d.OwnerID))
		_ = h.eventPublisher.Publish(event)
	}

	return &ReopenDoubtResult{Doubt: d}, nil
}
