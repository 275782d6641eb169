package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/comment"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/notification"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/shared"
	"github.com/devhelp-hub/devhelp-backend/internal/infrastructure/persistence/memory"
)

func seedDoubt(t *testing.T, repo *memory.DoubtRepository, id, owner string, createdAt time.Time) {
	t.Helper()
	d, err := doubt.NewDoubt(doubt.NewDoubtParams{
		ID:          doubt.DoubtID(id),
		Title:       "Title " + id,
		Description: "Description " + id,
		OwnerID:     identity.UserID(owner),
	})
	require.NoError(t, err)
	if !createdAt.IsZero() {
		d.CreatedAt = createdAt
	}
	require.NoError(t, repo.Create(context.Background(), d))
}

func seedComment(t *testing.T, repo *memory.CommentRepository, id, doubtID, msg string) {
	t.Helper()
	c, err := comment.NewComment(comment.NewCommentParams{
		ID:       comment.CommentID(id),
		DoubtID:  doubt.DoubtID(doubtID),
		AuthorID: "mentor-1",
		Message:  msg,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
}

func student(id string) *identity.Identity {
	return &identity.Identity{UserID: identity.UserID(id), Role: identity.RoleStudent}
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST DOUBTS
// ══════════════════════════════════════════════════════════════════════════════

func TestListDoubts_NewestFirst(t *testing.T) {
	repo := memory.NewDoubtRepository()
	for i := 1; i <= 3; i++ {
		seedDoubt(t, repo, fmt.Sprintf("d%d", i), "student-1", time.Date(2026, 1, i, 0, 0, 0, 0, time.UTC))
	}

	h := NewListDoubtsHandler(repo)
	result, err := h.Handle(context.Background(), ListDoubtsQuery{})
	require.NoError(t, err)

	require.Len(t, result.Doubts, 3)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, doubt.DoubtID("d3"), result.Doubts[0].ID)
	assert.Equal(t, doubt.DoubtID("d1"), result.Doubts[2].ID)
}

func TestListDoubts_StatusFilter(t *testing.T) {
	repo := memory.NewDoubtRepository()
	seedDoubt(t, repo, "d1", "student-1", time.Time{})
	seedDoubt(t, repo, "d2", "student-1", time.Time{})
	_, err := repo.UpdateStatus(context.Background(), "d2", doubt.StatusOpen, doubt.StatusResolved, "mentor-1")
	require.NoError(t, err)

	h := NewListDoubtsHandler(repo)
	result, err := h.Handle(context.Background(), ListDoubtsQuery{Status: doubt.StatusOpen})
	require.NoError(t, err)

	require.Len(t, result.Doubts, 1)
	assert.Equal(t, doubt.DoubtID("d1"), result.Doubts[0].ID)
}

func TestListDoubts_InvalidStatus(t *testing.T) {
	h := NewListDoubtsHandler(memory.NewDoubtRepository())

	_, err := h.Handle(context.Background(), ListDoubtsQuery{Status: "archived"})
	assert.True(t, shared.IsValidation(err))
}

func TestListDoubts_Empty(t *testing.T) {
	h := NewListDoubtsHandler(memory.NewDoubtRepository())

	result, err := h.Handle(context.Background(), ListDoubtsQuery{})
	require.NoError(t, err)
	assert.Empty(t, result.Doubts)
	assert.Zero(t, result.Total)
}

func TestListDoubtsByOwner(t *testing.T) {
	repo := memory.NewDoubtRepository()
	seedDoubt(t, repo, "d1", "student-1", time.Time{})
	seedDoubt(t, repo, "d2", "student-2", time.Time{})

	h := NewListDoubtsByOwnerHandler(repo)
	result, err := h.Handle(context.Background(), ListDoubtsByOwnerQuery{Actor: student("student-1")})
	require.NoError(t, err)

	require.Len(t, result.Doubts, 1)
	assert.Equal(t, doubt.DoubtID("d1"), result.Doubts[0].ID)
}

// ══════════════════════════════════════════════════════════════════════════════
// GET DOUBT
// ══════════════════════════════════════════════════════════════════════════════

func TestGetDoubt(t *testing.T) {
	doubts := memory.NewDoubtRepository()
	comments := memory.NewCommentRepository()
	seedDoubt(t, doubts, "d1", "student-1", time.Time{})
	seedComment(t, comments, "c1", "d1", "first")
	seedComment(t, comments, "c2", "d1", "second")

	h := NewGetDoubtHandler(doubts, comments)
	result, err := h.Handle(context.Background(), GetDoubtQuery{DoubtID: "d1"})
	require.NoError(t, err)

	assert.Equal(t, doubt.DoubtID("d1"), result.Doubt.ID)
	assert.Equal(t, 2, result.CommentCount)
}

func TestGetDoubt_NotFound(t *testing.T) {
	h := NewGetDoubtHandler(memory.NewDoubtRepository(), memory.NewCommentRepository())

	_, err := h.Handle(context.Background(), GetDoubtQuery{DoubtID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST COMMENTS
// ══════════════════════════════════════════════════════════════════════════════

func TestListComments_OldestFirst(t *testing.T) {
	doubts := memory.NewDoubtRepository()
	comments := memory.NewCommentRepository()
	seedDoubt(t, doubts, "d1", "student-1", time.Time{})
	seedComment(t, comments, "c1", "d1", "first")
	seedComment(t, comments, "c2", "d1", "second")

	h := NewListCommentsHandler(doubts, comments)
	result, err := h.Handle(context.Background(), ListCommentsQuery{DoubtID: "d1"})
	require.NoError(t, err)

	require.Len(t, result.Comments, 2)
	assert.Equal(t, "first", result.Comments[0].Message)
	assert.Equal(t, "second", result.Comments[1].Message)
}

func TestListComments_MissingDoubtIsNotFound(t *testing.T) {
	h := NewListCommentsHandler(memory.NewDoubtRepository(), memory.NewCommentRepository())

	// A missing doubt is not-found, never an empty list.
	_, err := h.Handle(context.Background(), ListCommentsQuery{DoubtID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestListComments_ExistingDoubtWithoutComments(t *testing.T) {
	doubts := memory.NewDoubtRepository()
	seedDoubt(t, doubts, "d1", "student-1", time.Time{})

	h := NewListCommentsHandler(doubts, memory.NewCommentRepository())
	result, err := h.Handle(context.Background(), ListCommentsQuery{DoubtID: "d1"})
	require.NoError(t, err)
	assert.Empty(t, result.Comments)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

func seedNotification(t *testing.T, repo *memory.NotificationRepository, id, recipient string) {
	t.Helper()
	n, err := notification.NewResolvedNotification(
		notification.NotificationID(id),
		identity.UserID(recipient),
		"d1",
		"Title",
	)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), n))
}

func TestListNotifications(t *testing.T) {
	repo := memory.NewNotificationRepository()
	seedNotification(t, repo, "n1", "student-1")
	seedNotification(t, repo, "n2", "student-1")
	seedNotification(t, repo, "n3", "student-2")

	h := NewListNotificationsHandler(repo)
	result, err := h.Handle(context.Background(), ListNotificationsQuery{Actor: student("student-1")})
	require.NoError(t, err)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, notification.NotificationID("n2"), result.Notifications[0].ID)
}

func TestListNotifications_UnreadOnly(t *testing.T) {
	repo := memory.NewNotificationRepository()
	seedNotification(t, repo, "n1", "student-1")
	seedNotification(t, repo, "n2", "student-1")
	_, err := repo.MarkRead(context.Background(), "n1")
	require.NoError(t, err)

	h := NewListNotificationsHandler(repo)
	result, err := h.Handle(context.Background(), ListNotificationsQuery{
		Actor:      student("student-1"),
		UnreadOnly: true,
	})
	require.NoError(t, err)

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, notification.NotificationID("n2"), result.Notifications[0].ID)
}

func TestUnreadCount(t *testing.T) {
	repo := memory.NewNotificationRepository()
	seedNotification(t, repo, "n1", "student-1")
	seedNotification(t, repo, "n2", "student-1")

	h := NewUnreadCountHandler(repo)
	result, err := h.Handle(context.Background(), UnreadCountQuery{Actor: student("student-1")})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)

	other, err := h.Handle(context.Background(), UnreadCountQuery{Actor: student("student-2")})
	require.NoError(t, err)
	assert.Zero(t, other.Count)
}
