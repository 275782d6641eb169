package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COMMENTS QUERY
// Comments of a doubt in creation order, oldest first. Public: reading
// the discussion requires no authentication.
// ══════════════════════════════════════════════════════════════════════════════

// ListCommentsQuery contains list parameters.
type ListCommentsQuery struct {
	DoubtID doubt.DoubtID
}

// Validate validates the query.
func (q ListCommentsQuery) Validate() error {
	if !q.DoubtID.IsValid() {
		return errors.New("list_comments: doubt_id is required")
	}
	return nil
}

// ListCommentsResult contains the comments.
type ListCommentsResult struct {
	Comments []*comment.Comment
}

// ListCommentsHandler handles the ListCommentsQuery.
type ListCommentsHandler struct {
	doubtRepo   doubt.Repository
	commentRepo comment.Repository
}

// NewListCommentsHandler creates a new ListCommentsHandler.
func NewListCommentsHandler(doubtRepo doubt.Repository, commentRepo comment.Repository) *ListCommentsHandler {
	return &ListCommentsHandler{
		doubtRepo:   doubtRepo,
		commentRepo: commentRepo,
	}
}

// Handle executes the list comments query.
// Listing comments of a missing doubt is not-found, never an empty list.
func (h *ListCommentsHandler) Handle(ctx context.Context, q ListCommentsQuery) (*ListCommentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("comment", "List", shared.ErrValidation, "validation failed", err)
	}

	exists, err := h.doubtRepo.Exists(ctx, q.DoubtID)
	if err != nil {
		return nil, fmt.Errorf("list_comments: existence check failed: %w", err)
	}
	if !exists {
		return nil, shared.ErrDoubtNotFound
	}

	comments, err := h.commentRepo.GetByDoubtID(ctx, q.DoubtID)
	if err != nil {
		return nil, fmt.Errorf("list_comments: %w", err)
	}

	return &ListCommentsResult{Comments: comments}, nil
}
