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
// GET DOUBT QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetDoubtQuery fetches a single doubt with its comment count.
type GetDoubtQuery struct {
	DoubtID doubt.DoubtID
}

// Validate validates the query.
func (q GetDoubtQuery) Validate() error {
	if !q.DoubtID.IsValid() {
		return errors.New("get_doubt: doubt_id is required")
	}
	return nil
}

// GetDoubtResult contains the doubt and its comment count.
type GetDoubtResult struct {
	Doubt        *doubt.Doubt
	CommentCount int
}

// GetDoubtHandler handles the GetDoubtQuery.
type GetDoubtHandler struct {
	doubtRepo   doubt.Repository
	commentRepo comment.Repository
}

// NewGetDoubtHandler creates a new GetDoubtHandler.
func NewGetDoubtHandler(doubtRepo doubt.Repository, commentRepo comment.Repository) *GetDoubtHandler {
	return &GetDoubtHandler{
		doubtRepo:   doubtRepo,
		commentRepo: commentRepo,
	}
}

// Handle executes the get doubt query.
func (h *GetDoubtHandler) Handle(ctx context.Context, q GetDoubtQuery) (*GetDoubtResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "Get", shared.ErrValidation, "validation failed", err)
	}

	d, err := h.doubtRepo.GetByID(ctx, q.DoubtID)
	if err != nil {
		return nil, err
	}

	count, err := h.commentRepo.CountByDoubtID(ctx, q.DoubtID)
	if err != nil {
		return nil, fmt.Errorf("get_doubt: comment count failed: %w", err)
	}

	return &GetDoubtResult{Doubt: d, CommentCount: count}, nil
}
