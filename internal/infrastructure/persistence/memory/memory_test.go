package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
)

func newDoubt(t *testing.T, id string, owner string) *doubt.Doubt {
	t.Helper()
	d, err := doubt.NewDoubt(doubt.NewDoubtParams{
		ID:          doubt.DoubtID(id),
		Title:       "Title " + id,
		Description: "Description " + id,
		OwnerID:     identity.UserID(owner),
	})
	require.NoError(t, err)
	return d
}

// ══════════════════════════════════════════════════════════════════════════════
// DOUBT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

func TestDoubtRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	d := newDoubt(t, "d1", "student-1")
	require.NoError(t, repo.Create(ctx, d))

	got, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, d.Title, got.Title)

	// Repository hands out copies, not the stored entity.
	got.Title = "mutated"
	again, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Title)
}

func TestDoubtRepository_GetByID_NotFound(t *testing.T) {
	repo := NewDoubtRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrDoubtNotFound)
	assert.True(t, shared.IsNotFound(err))
}

func TestDoubtRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))
	require.NoError(t, repo.Delete(ctx, "d1"))

	exists, err := repo.Exists(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, "d1"), shared.ErrDoubtNotFound)
}

func TestDoubtRepository_UpdateStatus_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))

	resolved, err := repo.UpdateStatus(ctx, "d1", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	require.NoError(t, err)

	assert.Equal(t, doubt.StatusResolved, resolved.Status)
	assert.Equal(t, identity.UserID("mentor-1"), resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)
}

func TestDoubtRepository_UpdateStatus_AlreadyResolved(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))

	_, err := repo.UpdateStatus(ctx, "d1", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, "d1", doubt.StatusOpen, doubt.StatusResolved, "mentor-2")
	assert.ErrorIs(t, err, shared.ErrDoubtAlreadyResolved)
	assert.True(t, shared.IsInvalidTransition(err))
}

func TestDoubtRepository_UpdateStatus_Reopen(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))

	_, err := repo.UpdateStatus(ctx, "d1", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	require.NoError(t, err)

	reopened, err := repo.UpdateStatus(ctx, "d1", doubt.StatusResolved, doubt.StatusOpen, "student-1")
	require.NoError(t, err)

	assert.Equal(t, doubt.StatusOpen, reopened.Status)
	assert.Empty(t, reopened.ResolvedBy)
	assert.Nil(t, reopened.ResolvedAt)

	_, err = repo.UpdateStatus(ctx, "d1", doubt.StatusResolved, doubt.StatusOpen, "student-1")
	assert.ErrorIs(t, err, shared.ErrDoubtAlreadyOpen)
}

func TestDoubtRepository_UpdateStatus_NotFound(t *testing.T) {
	repo := NewDoubtRepository()

	_, err := repo.UpdateStatus(context.Background(), "missing", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	assert.ErrorIs(t, err, shared.ErrDoubtNotFound)
}

func TestDoubtRepository_UpdateStatus_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))

	const mentors = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < mentors; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := identity.UserID(fmt.Sprintf("mentor-%d", n))
			if _, err := repo.UpdateStatus(ctx, "d1", doubt.StatusOpen, doubt.StatusResolved, actor); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one mentor wins the resolve race")
}

func TestDoubtRepository_GetAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	for i := 1; i <= 3; i++ {
		d := newDoubt(t, fmt.Sprintf("d%d", i), "student-1")
		d.CreatedAt = time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, d))
	}

	all, err := repo.GetAll(ctx, doubt.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, doubt.DoubtID("d3"), all[0].ID)
	assert.Equal(t, doubt.DoubtID("d1"), all[2].ID)
}

func TestDoubtRepository_GetAll_StatusFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d2", "student-1")))
	_, err := repo.UpdateStatus(ctx, "d2", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	require.NoError(t, err)

	open, err := repo.GetAll(ctx, doubt.DefaultListOptions().WithStatus(doubt.StatusOpen))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, doubt.DoubtID("d1"), open[0].ID)

	resolved, err := repo.GetAll(ctx, doubt.DefaultListOptions().WithStatus(doubt.StatusResolved))
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, doubt.DoubtID("d2"), resolved[0].ID)
}

func TestDoubtRepository_GetAll_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	for i := 1; i <= 5; i++ {
		d := newDoubt(t, fmt.Sprintf("d%d", i), "student-1")
		d.CreatedAt = time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, d))
	}

	page, err := repo.GetAll(ctx, doubt.DefaultListOptions().WithOffset(1).WithLimit(2))
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, doubt.DoubtID("d4"), page[0].ID)
	assert.Equal(t, doubt.DoubtID("d3"), page[1].ID)

	empty, err := repo.GetAll(ctx, doubt.DefaultListOptions().WithOffset(10))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDoubtRepository_GetByOwnerID(t *testing.T) {
	ctx := context.Background()
	repo := NewDoubtRepository()

	require.NoError(t, repo.Create(ctx, newDoubt(t, "d1", "student-1")))
	require.NoError(t, repo.Create(ctx, newDoubt(t, "d2", "student-2")))

	mine, err := repo.GetByOwnerID(ctx, "student-1", doubt.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, doubt.DoubtID("d1"), mine[0].ID)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

func newComment(t *testing.T, id, doubtID, author, msg string) *comment.Comment {
	t.Helper()
	c, err := comment.NewComment(comment.NewCommentParams{
		ID:       comment.CommentID(id),
		DoubtID:  doubt.DoubtID(doubtID),
		AuthorID: identity.UserID(author),
		Message:  msg,
	})
	require.NoError(t, err)
	return c
}

func TestCommentRepository_OldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCommentRepository()

	require.NoError(t, repo.Create(ctx, newComment(t, "c1", "d1", "mentor-1", "first")))
	require.NoError(t, repo.Create(ctx, newComment(t, "c2", "d1", "mentor-2", "second")))
	require.NoError(t, repo.Create(ctx, newComment(t, "c3", "d2", "mentor-1", "other thread")))

	comments, err := repo.GetByDoubtID(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Message)
	assert.Equal(t, "second", comments[1].Message)

	count, err := repo.CountByDoubtID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCommentRepository_GetByDoubtID_Empty(t *testing.T) {
	repo := NewCommentRepository()

	comments, err := repo.GetByDoubtID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentRepository_DeleteByDoubtID(t *testing.T) {
	ctx := context.Background()
	repo := NewCommentRepository()

	require.NoError(t, repo.Create(ctx, newComment(t, "c1", "d1", "mentor-1", "one")))
	require.NoError(t, repo.Create(ctx, newComment(t, "c2", "d1", "mentor-1", "two")))
	require.NoError(t, repo.DeleteByDoubtID(ctx, "d1"))

	count, err := repo.CountByDoubtID(ctx, "d1")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, shared.ErrCommentNotFound)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

func newNotification(t *testing.T, id, recipient, title string) *notification.Notification {
	t.Helper()
	n, err := notification.NewResolvedNotification(
		notification.NotificationID(id),
		identity.UserID(recipient),
		"d1",
		title,
	)
	require.NoError(t, err)
	return n
}

func TestNotificationRepository_GetByRecipient_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	require.NoError(t, repo.Create(ctx, newNotification(t, "n1", "student-1", "first")))
	require.NoError(t, repo.Create(ctx, newNotification(t, "n2", "student-1", "second")))
	require.NoError(t, repo.Create(ctx, newNotification(t, "n3", "student-2", "theirs")))

	list, err := repo.GetByRecipient(ctx, "student-1", notification.DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, notification.NotificationID("n2"), list[0].ID)
	assert.Equal(t, notification.NotificationID("n1"), list[1].ID)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	require.NoError(t, repo.Create(ctx, newNotification(t, "n1", "student-1", "title")))

	read, err := repo.MarkRead(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	// Idempotent: the read timestamp does not move.
	again, err := repo.MarkRead(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, read.ReadAt, again.ReadAt)

	_, err = repo.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotificationNotFound)
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	require.NoError(t, repo.Create(ctx, newNotification(t, "n1", "student-1", "a")))
	require.NoError(t, repo.Create(ctx, newNotification(t, "n2", "student-1", "b")))
	require.NoError(t, repo.Create(ctx, newNotification(t, "n3", "student-2", "c")))

	count, err := repo.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.MarkRead(ctx, "n1")
	require.NoError(t, err)

	count, err = repo.CountUnread(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationRepository_UnreadOnlyFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	require.NoError(t, repo.Create(ctx, newNotification(t, "n1", "student-1", "a")))
	require.NoError(t, repo.Create(ctx, newNotification(t, "n2", "student-1", "b")))
	_, err := repo.MarkRead(ctx, "n1")
	require.NoError(t, err)

	unread, err := repo.GetByRecipient(ctx, "student-1", notification.ListOptions{Limit: 50, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, notification.NotificationID("n2"), unread[0].ID)
}
