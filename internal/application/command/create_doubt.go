// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE DOUBT COMMAND
// A student posts a new help request. The doubt starts in the open state.
// ══════════════════════════════════════════════════════════════════════════════

// CreateDoubtCommand contains the data to create a doubt.
type CreateDoubtCommand struct {
	// Actor is the authenticated caller. Must be a student.
	Actor *identity.Identity

	// Title is a short summary of the problem.
	Title string

	// Description is the full problem statement.
	Description string

	// AttachmentURL is an optional link to a screenshot or file.
	AttachmentURL string
}

// Validate validates the command.
func (c CreateDoubtCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("create_doubt: actor is required")
	}
	if c.Title == "" {
		return errors.New("create_doubt: title is required")
	}
	if c.Description == "" {
		return errors.New("create_doubt: description is required")
	}
	return nil
}

// CreateDoubtResult contains the created doubt.
type CreateDoubtResult struct {
	Doubt *doubt.Doubt
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// IDGenerator produces unique identifiers for new entities.
type IDGenerator interface {
	GenerateID() string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateDoubtHandler handles the CreateDoubtCommand.
type CreateDoubtHandler struct {
	doubtRepo      doubt.Repository
	ids            IDGenerator
	eventPublisher shared.EventPublisher
}

// NewCreateDoubtHandler creates a new CreateDoubtHandler.
func NewCreateDoubtHandler(doubtRepo doubt.Repository, ids IDGenerator, eventPublisher shared.EventPublisher) *CreateDoubtHandler {
	return &CreateDoubtHandler{
		doubtRepo:      doubtRepo,
		ids:            ids,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create doubt command.
func (h *CreateDoubtHandler) Handle(ctx context.Context, cmd CreateDoubtCommand) (*CreateDoubtResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "Create", shared.ErrValidation, "validation failed", err)
	}

	if err := identity.RequireRole(cmd.Actor, identity.RoleStudent); err != nil {
		return nil, shared.WrapError("doubt", "Create", shared.ErrForbidden, "only students can create doubts", err)
	}

	d, err := doubt.NewDoubt(doubt.NewDoubtParams{
		ID:            doubt.DoubtID(h.ids.GenerateID()),
		Title:         cmd.Title,
		Description:   cmd.Description,
		AttachmentURL: cmd.AttachmentURL,
		OwnerID:       cmd.Actor.UserID,
	})
	if err != nil {
		return nil, shared.WrapError("doubt", "Create", shared.ErrValidation, "invalid doubt", err)
	}

	if err := h.doubtRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create_doubt: failed to save doubt: %w", err)
	}

	if h.eventPublisher != nil {
		event := shared.NewDoubtCreatedEvent(string(d.ID), string(d.OwnerID), d.Title)
		_ = h.eventPublisher.Publish(event)
	}

	return &CreateDoubtResult{Doubt: d}, nil
}
