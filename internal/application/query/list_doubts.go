// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST DOUBTS QUERY
// The public doubt board. No authentication required; anyone can browse
// open and resolved doubts, newest first.
// ══════════════════════════════════════════════════════════════════════════════

// ListDoubtsQuery contains list parameters.
type ListDoubtsQuery struct {
	// Status filters by lifecycle state. Empty means all.
	Status doubt.Status

	// Offset is the pagination offset.
	Offset int

	// Limit is the maximum number of results.
	Limit int
}

// Validate validates the query.
func (q ListDoubtsQuery) Validate() error {
	if q.Status != "" && !q.Status.IsValid() {
		return fmt.Errorf("list_doubts: invalid status: %s", q.Status)
	}
	if q.Offset < 0 {
		return errors.New("list_doubts: offset cannot be negative")
	}
	return nil
}

// ListDoubtsResult contains the doubts page.
type ListDoubtsResult struct {
	Doubts []*doubt.Doubt
	Total  int
}

// ListDoubtsHandler handles the ListDoubtsQuery.
type ListDoubtsHandler struct {
	doubtRepo doubt.Repository
}

// NewListDoubtsHandler creates a new ListDoubtsHandler.
func NewListDoubtsHandler(doubtRepo doubt.Repository) *ListDoubtsHandler {
	return &ListDoubtsHandler{doubtRepo: doubtRepo}
}

// Handle executes the list doubts query.
func (h *ListDoubtsHandler) Handle(ctx context.Context, q ListDoubtsQuery) (*ListDoubtsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "List", shared.ErrValidation, "validation failed", err)
	}

	opts := doubt.DefaultListOptions().
		WithOffset(q.Offset).
		WithStatus(q.Status)
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}

	doubts, err := h.doubtRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list_doubts: %w", err)
	}

	total, err := h.doubtRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_doubts: count failed: %w", err)
	}

	return &ListDoubtsResult{Doubts: doubts, Total: total}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST DOUBTS BY OWNER QUERY
// "My doubts" for the authenticated student.
// ══════════════════════════════════════════════════════════════════════════════

// ListDoubtsByOwnerQuery contains list parameters for an owner's doubts.
type ListDoubtsByOwnerQuery struct {
	// Actor is the authenticated caller whose doubts are listed.
	Actor *identity.Identity

	// Status filters by lifecycle state. Empty means all.
	Status doubt.Status

	// Offset is the pagination offset.
	Offset int

	// Limit is the maximum number of results.
	Limit int
}

// Validate validates the query.
func (q ListDoubtsByOwnerQuery) Validate() error {
	if q.Actor == nil {
		return errors.New("list_doubts_by_owner: actor is required")
	}
	if q.Status != "" && !q.Status.IsValid() {
		return fmt.Errorf("list_doubts_by_owner: invalid status: %s", q.Status)
	}
	return nil
}

// ListDoubtsByOwnerHandler handles the ListDoubtsByOwnerQuery.
type ListDoubtsByOwnerHandler struct {
	doubtRepo doubt.Repository
}

// NewListDoubtsByOwnerHandler creates a new ListDoubtsByOwnerHandler.
func NewListDoubtsByOwnerHandler(doubtRepo doubt.Repository) *ListDoubtsByOwnerHandler {
	return &ListDoubtsByOwnerHandler{doubtRepo: doubtRepo}
}

// Handle executes the list doubts by owner query.
func (h *ListDoubtsByOwnerHandler) Handle(ctx context.Context, q ListDoubtsByOwnerQuery) (*ListDoubtsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("doubt", "ListByOwner", shared.ErrValidation, "validation failed", err)
	}

	opts := doubt.DefaultListOptions().
		WithOffset(q.Offset).
		WithStatus(q.Status)
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}

	doubts, err := h.doubtRepo.GetByOwnerID(ctx, q.Actor.UserID, opts)
	if err != nil {
		return nil, fmt.Errorf("list_doubts_by_owner: %w", err)
	}

	return &ListDoubtsResult{Doubts: doubts, Total: len(doubts)}, nil
}
