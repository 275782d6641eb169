package command

import (
	"context"
	"errors"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE DOUBT COMMAND
// Removes a doubt and its comments. Any authenticated user can delete;
// there is no ownership gate on deletion.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteDoubtCommand contains the data to delete a doubt.
type DeleteDoubtCommand struct {
	// Actor is the authenticated caller.
	Actor *identity.Identity

	// DoubtID is the doubt to delete.
	DoubtID doubt.DoubtID
}

// Validate validates the command.
func (c DeleteDoubtCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("delete_doubt: actor is required")
	}
	if !c.DoubtID.IsValid() {
		return errors.New("delete_doubt: doubt_id is required")
	}
	return nil
}

// DeleteDoubtHandler handles the DeleteDoubtCommand.
type DeleteDoubtHandler struct {
	doubtRepo      doubt.Repository
	eventPublisher shared.EventPublisher
}

// NewDeleteDoubtHandler creates a new DeleteDoubtHandler.
func NewDeleteDoubtHandler(doubtRepo doubt.Repository, eventPublisher shared.EventPublisher) *DeleteDoubtHandler {
	return &DeleteDoubtHandler{
		doubtRepo:      doubtRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the delete doubt command. Comments are removed
// together with the doubt by the persistence layer.
func (h *DeleteDoubtHandler) Handle(ctx context.Context, cmd DeleteDoubtCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("doubt", "Delete", shared.ErrValidation, "validation failed", err)
	}

	if err := h.doubtRepo.Delete(ctx, cmd.DoubtID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		event := shared.NewDoubtDeletedEvent(string(cmd.DoubtID))
		_ = h.eventPublisher.Publish(event)
	}

	return nil
}
