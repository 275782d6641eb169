// Package memory provides in-memory repository implementations.
// Used by tests and by the server in development mode when no database
// is configured. All implementations are safe for concurrent use and
// preserve the same compare-and-set transition semantics as the
// PostgreSQL layer.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOUBT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// DoubtRepository is an in-memory implementation of doubt.Repository.
type DoubtRepository struct {
	mu     sync.RWMutex
	doubts map[doubt.DoubtID]*doubt.Doubt
}

// NewDoubtRepository creates an empty in-memory doubt repository.
func NewDoubtRepository() *DoubtRepository {
	return &DoubtRepository{
		doubts: make(map[doubt.DoubtID]*doubt.Doubt),
	}
}

// Create saves a new doubt.
func (r *DoubtRepository) Create(ctx context.Context, d *doubt.Doubt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doubts[d.ID]; ok {
		return shared.NewDomainError("doubt", "Create", shared.ErrAlreadyExists, "doubt already exists")
	}

	r.doubts[d.ID] = d.Clone()
	return nil
}

// GetByID returns a doubt by ID.
func (r *DoubtRepository) GetByID(ctx context.Context, id doubt.DoubtID) (*doubt.Doubt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doubts[id]
	if !ok {
		return nil, shared.ErrDoubtNotFound
	}
	return d.Clone(), nil
}

// Delete removes a doubt.
func (r *DoubtRepository) Delete(ctx context.Context, id doubt.DoubtID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doubts[id]; !ok {
		return shared.ErrDoubtNotFound
	}

	delete(r.doubts, id)
	return nil
}

// UpdateStatus atomically transitions a doubt between statuses.
// The check and the write happen under one lock, so concurrent
// transitions from the same state succeed exactly once.
func (r *DoubtRepository) UpdateStatus(ctx context.Context, id doubt.DoubtID, from, to doubt.Status, actor identity.UserID) (*doubt.Doubt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doubts[id]
	if !ok {
		return nil, shared.ErrDoubtNotFound
	}

	if d.Status != from {
		if to == doubt.StatusResolved {
			return nil, shared.ErrDoubtAlreadyResolved
		}
		return nil, shared.ErrDoubtAlreadyOpen
	}

	now := time.Now().UTC()
	d.Status = to
	d.UpdatedAt = now
	if to == doubt.StatusResolved {
		d.ResolvedBy = actor
		d.ResolvedAt = &now
	} else {
		d.ResolvedBy = ""
		d.ResolvedAt = nil
	}

	return d.Clone(), nil
}

// GetAll returns all doubts, newest first.
func (r *DoubtRepository) GetAll(ctx context.Context, opts doubt.ListOptions) ([]*doubt.Doubt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*doubt.Doubt, 0, len(r.doubts))
	for _, d := range r.doubts {
		if opts.Status != "" && d.Status != opts.Status {
			continue
		}
		all = append(all, d.Clone())
	}

	sortDoubtsNewestFirst(all)
	return paginateDoubts(all, opts.Offset, opts.Limit), nil
}

// GetByOwnerID returns doubts of the given owner, newest first.
func (r *DoubtRepository) GetByOwnerID(ctx context.Context, ownerID identity.UserID, opts doubt.ListOptions) ([]*doubt.Doubt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*doubt.Doubt, 0)
	for _, d := range r.doubts {
		if d.OwnerID != ownerID {
			continue
		}
		if opts.Status != "" && d.Status != opts.Status {
			continue
		}
		all = append(all, d.Clone())
	}

	sortDoubtsNewestFirst(all)
	return paginateDoubts(all, opts.Offset, opts.Limit), nil
}

// Count returns the total number of doubts.
func (r *DoubtRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.doubts), nil
}

// Exists checks whether a doubt exists.
func (r *DoubtRepository) Exists(ctx context.Context, id doubt.DoubtID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.doubts[id]
	return ok, nil
}

func sortDoubtsNewestFirst(doubts []*doubt.Doubt) {
	sort.SliceStable(doubts, func(i, j int) bool {
		if doubts[i].CreatedAt.Equal(doubts[j].CreatedAt) {
			return doubts[i].ID > doubts[j].ID
		}
		return doubts[i].CreatedAt.After(doubts[j].CreatedAt)
	})
}

func paginateDoubts(doubts []*doubt.Doubt, offset, limit int) []*doubt.Doubt {
	if limit <= 0 {
		limit = 50
	}
	if offset >= len(doubts) {
		return []*doubt.Doubt{}
	}
	end := offset + limit
	if end > len(doubts) {
		end = len(doubts)
	}
	return doubts[offset:end]
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// CommentRepository is an in-memory implementation of comment.Repository.
// Comments are kept in insertion order per doubt.
type CommentRepository struct {
	mu      sync.RWMutex
	byID    map[comment.CommentID]*comment.Comment
	byDoubt map[doubt.DoubtID][]comment.CommentID
}

// NewCommentRepository creates an empty in-memory comment repository.
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		byID:    make(map[comment.CommentID]*comment.Comment),
		byDoubt: make(map[doubt.DoubtID][]comment.CommentID),
	}
}

// Create saves a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return shared.NewDomainError("comment", "Create", shared.ErrAlreadyExists, "comment already exists")
	}

	r.byID[c.ID] = c.Clone()
	r.byDoubt[c.DoubtID] = append(r.byDoubt[c.DoubtID], c.ID)
	return nil
}

// GetByID returns a comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, id comment.CommentID) (*comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrCommentNotFound
	}
	return c.Clone(), nil
}

// GetByDoubtID returns comments of a doubt in insertion order.
func (r *CommentRepository) GetByDoubtID(ctx context.Context, doubtID doubt.DoubtID) ([]*comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byDoubt[doubtID]
	comments := make([]*comment.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.byID[id]; ok {
			comments = append(comments, c.Clone())
		}
	}
	return comments, nil
}

// CountByDoubtID returns the number of comments on a doubt.
func (r *CommentRepository) CountByDoubtID(ctx context.Context, doubtID doubt.DoubtID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byDoubt[doubtID]), nil
}

// DeleteByDoubtID removes all comments of a doubt.
func (r *CommentRepository) DeleteByDoubtID(ctx context.Context, doubtID doubt.DoubtID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.byDoubt[doubtID] {
		delete(r.byID, id)
	}
	delete(r.byDoubt, doubtID)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository is an in-memory implementation of notification.Repository.
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[notification.NotificationID]*notification.Notification
	order         []notification.NotificationID
}

// NewNotificationRepository creates an empty in-memory notification repository.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[notification.NotificationID]*notification.Notification),
	}
}

// Create saves a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[n.ID]; ok {
		return shared.NewDomainError("notification", "Create", shared.ErrAlreadyExists, "notification already exists")
	}

	r.notifications[n.ID] = n.Clone()
	r.order = append(r.order, n.ID)
	return nil
}

// GetByID returns a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id notification.NotificationID) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	return n.Clone(), nil
}

// GetByRecipient returns a user's notifications, newest first.
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID identity.UserID, opts notification.ListOptions) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Insertion order is creation order, so walk backwards.
	all := make([]*notification.Notification, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		n, ok := r.notifications[r.order[i]]
		if !ok || n.RecipientID != recipientID {
			continue
		}
		if opts.UnreadOnly && n.IsRead {
			continue
		}
		all = append(all, n.Clone())
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if opts.Offset >= len(all) {
		return []*notification.Notification{}, nil
	}
	end := opts.Offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[opts.Offset:end], nil
}

// MarkRead marks a notification as read. Idempotent.
func (r *NotificationRepository) MarkRead(ctx context.Context, id notification.NotificationID) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}

	n.MarkRead()
	return n.Clone(), nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID identity.UserID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
