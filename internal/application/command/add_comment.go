package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD COMMENT COMMAND
// A mentor comments on a doubt. Comments are append-only and are
// allowed regardless of the doubt's status, so a mentor can leave a
// follow-up on an already resolved doubt.
// ══════════════════════════════════════════════════════════════════════════════

// AddCommentCommand contains the data to add a comment.
type AddCommentCommand struct {
	// Actor is the authenticated caller. Must be a mentor.
	Actor *identity.Identity

	// DoubtID is the doubt being commented on.
	DoubtID doubt.DoubtID

	// Message is the comment text.
	Message string
}

// Validate validates the command.
func (c AddCommentCommand) Validate() error {
	if c.Actor == nil {
		return errors.New("add_comment: actor is required")
	}
	if !c.DoubtID.IsValid() {
		return errors.New("add_comment: doubt_id is required")
	}
	if c.Message == "" {
		return errors.New("add_comment: message is required")
	}
	return nil
}

// AddCommentResult contains the created comment.
type AddCommentResult struct {
	Comment *comment.Comment
}

// AddCommentHandler handles the AddCommentCommand.
type AddCommentHandler struct {
	doubtRepo      doubt.Repository
	commentRepo    comment.Repository
	ids            IDGenerator
	eventPublisher shared.EventPublisher
}

// NewAddCommentHandler creates a new AddCommentHandler.
func NewAddCommentHandler(doubtRepo doubt.Repository, commentRepo comment.Repository, ids IDGenerator, eventPublisher shared.EventPublisher) *AddCommentHandler {
	return &AddCommentHandler{
		doubtRepo:      doubtRepo,
		commentRepo:    commentRepo,
		ids:            ids,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the add comment command.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("comment", "Create", shared.ErrValidation, "validation failed", err)
	}

	exists, err := h.doubtRepo.Exists(ctx, cmd.DoubtID)
	if err != nil {
		return nil, fmt.Errorf("add_comment: existence check failed: %w", err)
	}
	if !exists {
		return nil, shared.ErrDoubtNotFound
	}

	if err := identity.RequireRole(cmd.Actor, identity.RoleMentor); err != nil {
		return nil, shared.WrapError("comment", "Create", shared.ErrForbidden, "only mentors can comment", err)
	}

	c, err := comment.NewComment(comment.NewCommentParams{
		ID:       comment.CommentID(h.ids.GenerateID()),
		DoubtID:  cmd.DoubtID,
		AuthorID: cmd.Actor.UserID,
		Message:  cmd.Message,
	})
	if err != nil {
		return nil, shared.WrapError("comment", "Create", shared.ErrValidation, "invalid comment", err)
	}

	if err := h.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("add_comment: failed to save comment: %w", err)
	}

	if h.eventPublisher != nil {
		event := shared.NewCommentAddedEvent(string(c.ID), string(c.DoubtID), string(c.AuthorID))
		_ = h.eventPublisher.Publish(event)
	}

	return &AddCommentResult{Comment: c}, nil
}
