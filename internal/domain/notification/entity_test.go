package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvedNotification(t *testing.T) {
	n, err := NewResolvedNotification("notif-1", "student-1", "doubt-1", "Goroutine leak in worker pool")
	require.NoError(t, err)

	assert.Equal(t, NotificationID("notif-1"), n.ID)
	assert.Equal(t, `Your doubt "Goroutine leak in worker pool" has been resolved.`, n.Message)
	assert.False(t, n.IsRead)
	assert.Nil(t, n.ReadAt)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNewResolvedNotification_Validation(t *testing.T) {
	_, err := NewResolvedNotification("notif-1", "", "doubt-1", "Title")
	assert.ErrorIs(t, err, ErrRecipientRequired)
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewResolvedNotification("notif-1", "student-1", "doubt-1", "Title")
	require.NoError(t, err)

	n.MarkRead()
	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)

	// Marking again keeps the original read time.
	firstReadAt := *n.ReadAt
	n.MarkRead()
	assert.Equal(t, firstReadAt, *n.ReadAt)
}

func TestNotification_BelongsTo(t *testing.T) {
	n, err := NewResolvedNotification("notif-1", "student-1", "doubt-1", "Title")
	require.NoError(t, err)

	assert.True(t, n.BelongsTo("student-1"))
	assert.False(t, n.BelongsTo("student-2"))
}
