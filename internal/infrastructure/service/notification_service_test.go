package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/persistence/memory"
)

// fakeCounter mimics the cache semantics of the Redis unread counter:
// increments and decrements only touch warm keys.
type fakeCounter struct {
	counts map[identity.UserID]int
	warm   map[identity.UserID]bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts: make(map[identity.UserID]int),
		warm:   make(map[identity.UserID]bool),
	}
}

func (c *fakeCounter) Get(ctx context.Context, recipientID identity.UserID) (int, bool, error) {
	if !c.warm[recipientID] {
		return 0, false, nil
	}
	return c.counts[recipientID], true, nil
}

func (c *fakeCounter) Set(ctx context.Context, recipientID identity.UserID, count int) error {
	c.counts[recipientID] = count
	c.warm[recipientID] = true
	return nil
}

func (c *fakeCounter) Increment(ctx context.Context, recipientID identity.UserID) error {
	if c.warm[recipientID] {
		c.counts[recipientID]++
	}
	return nil
}

func (c *fakeCounter) Decrement(ctx context.Context, recipientID identity.UserID) error {
	if c.warm[recipientID] && c.counts[recipientID] > 0 {
		c.counts[recipientID]--
	}
	return nil
}

func (c *fakeCounter) Invalidate(ctx context.Context, recipientID identity.UserID) error {
	delete(c.counts, recipientID)
	delete(c.warm, recipientID)
	return nil
}

func resolvedDoubt(t *testing.T) *doubt.Doubt {
	t.Helper()
	d, err := doubt.NewDoubt(doubt.NewDoubtParams{
		ID:          "d1",
		Title:       "Off-by-one in pagination",
		Description: "The last page repeats one item.",
		OwnerID:     "student-1",
	})
	require.NoError(t, err)
	require.NoError(t, d.Resolve("mentor-1"))
	return d
}

func TestNotifyResolved(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, nil, NewIDGenerator(), nil, nil)

	n, err := svc.NotifyResolved(context.Background(), resolvedDoubt(t))
	require.NoError(t, err)

	assert.Equal(t, identity.UserID("student-1"), n.RecipientID)
	assert.Contains(t, n.Message, "Off-by-one in pagination")
	assert.False(t, n.IsRead)

	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Message, stored.Message)
}

func TestMarkRead_RecipientOnly(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo, nil, NewIDGenerator(), nil, nil)

	n, err := svc.NotifyResolved(context.Background(), resolvedDoubt(t))
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), n.ID, "student-2")
	assert.ErrorIs(t, err, shared.ErrNotificationNotRecipient)

	read, err := svc.MarkRead(context.Background(), n.ID, "student-1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)
}

func TestCountUnread_CacheReadThrough(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	counter := newFakeCounter()
	svc := NewNotificationService(repo, counter, NewIDGenerator(), nil, nil)

	// Cold cache: counting falls through to the repository and warms the key.
	_, err := svc.NotifyResolved(ctx, resolvedDoubt(t))
	require.NoError(t, err)

	count, err := svc.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, counter.warm["student-1"])

	// Warm cache: the next notification bumps the cached value.
	_, err = svc.NotifyResolved(ctx, resolvedDoubt(t))
	require.NoError(t, err)

	count, err = svc.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCountUnread_DecrementOnlyWhenFlipped(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationRepository()
	counter := newFakeCounter()
	svc := NewNotificationService(repo, counter, NewIDGenerator(), nil, nil)

	n, err := svc.NotifyResolved(ctx, resolvedDoubt(t))
	require.NoError(t, err)

	count, err := svc.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = svc.MarkRead(ctx, n.ID, "student-1")
	require.NoError(t, err)

	count, err = svc.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Marking an already read notification does not drive the counter negative.
	_, err = svc.MarkRead(ctx, n.ID, "student-1")
	require.NoError(t, err)

	count, err = svc.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
