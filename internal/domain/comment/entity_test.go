package comment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	c, err := NewComment(NewCommentParams{
		ID:       "comment-1",
		DoubtID:  "doubt-1",
		AuthorID: "mentor-1",
		Message:  "  Have you checked the error return?  ",
	})
	require.NoError(t, err)

	assert.Equal(t, CommentID("comment-1"), c.ID)
	assert.Equal(t, "Have you checked the error return?", c.Message)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestNewComment_Validation(t *testing.T) {
	valid := NewCommentParams{
		ID:       "comment-1",
		DoubtID:  "doubt-1",
		AuthorID: "mentor-1",
		Message:  "Looks like a race condition.",
	}

	tests := []struct {
		name    string
		mutate  func(*NewCommentParams)
		wantErr error
	}{
		{
			name:    "empty message",
			mutate:  func(p *NewCommentParams) { p.Message = " \t\n" },
			wantErr: ErrEmptyMessage,
		},
		{
			name:    "message too long",
			mutate:  func(p *NewCommentParams) { p.Message = strings.Repeat("a", 5001) },
			wantErr: ErrMessageTooLong,
		},
		{
			name:    "missing doubt",
			mutate:  func(p *NewCommentParams) { p.DoubtID = "" },
			wantErr: ErrDoubtRequired,
		},
		{
			name:    "missing author",
			mutate:  func(p *NewCommentParams) { p.AuthorID = "" },
			wantErr: ErrAuthorRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)

			_, err := NewComment(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
