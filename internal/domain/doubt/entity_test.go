package doubt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

func validParams() NewDoubtParams {
	return NewDoubtParams{
		ID:          "doubt-1",
		Title:       "Nil pointer dereference in HTTP handler",
		Description: "The handler panics when the request body is empty.",
		OwnerID:     "student-1",
	}
}

func TestNewDoubt(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)

	assert.Equal(t, DoubtID("doubt-1"), d.ID)
	assert.Equal(t, StatusOpen, d.Status)
	assert.True(t, d.IsOpen())
	assert.False(t, d.IsResolved())
	assert.Empty(t, d.ResolvedBy)
	assert.Nil(t, d.ResolvedAt)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Equal(t, d.CreatedAt, d.UpdatedAt)
}

func TestNewDoubt_TrimsWhitespace(t *testing.T) {
	params := validParams()
	params.Title = "  Panic in handler  "
	params.Description = "\n\tDetails here\n"

	d, err := NewDoubt(params)
	require.NoError(t, err)

	assert.Equal(t, "Panic in handler", d.Title)
	assert.Equal(t, "Details here", d.Description)
}

func TestNewDoubt_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewDoubtParams)
		wantErr error
	}{
		{
			name:    "empty title",
			mutate:  func(p *NewDoubtParams) { p.Title = "   " },
			wantErr: ErrTitleRequired,
		},
		{
			name:    "title too long",
			mutate:  func(p *NewDoubtParams) { p.Title = strings.Repeat("x", 201) },
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "empty description",
			mutate:  func(p *NewDoubtParams) { p.Description = "" },
			wantErr: ErrDescriptionRequired,
		},
		{
			name:    "missing owner",
			mutate:  func(p *NewDoubtParams) { p.OwnerID = "" },
			wantErr: ErrOwnerRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := NewDoubt(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoubt_Resolve(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)

	err = d.Resolve("mentor-1")
	require.NoError(t, err)

	assert.True(t, d.IsResolved())
	assert.Equal(t, identity.UserID("mentor-1"), d.ResolvedBy)
	require.NotNil(t, d.ResolvedAt)
	assert.False(t, d.ResolvedAt.IsZero())
}

func TestDoubt_Resolve_AlreadyResolved(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)

	require.NoError(t, d.Resolve("mentor-1"))

	err = d.Resolve("mentor-2")
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// The first resolver stays recorded.
	assert.Equal(t, identity.UserID("mentor-1"), d.ResolvedBy)
}

func TestDoubt_Reopen(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)

	require.NoError(t, d.Resolve("mentor-1"))
	require.NoError(t, d.Reopen())

	assert.True(t, d.IsOpen())
	assert.Empty(t, d.ResolvedBy)
	assert.Nil(t, d.ResolvedAt)
}

func TestDoubt_Reopen_AlreadyOpen(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)

	err = d.Reopen()
	assert.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusOpen.CanTransitionTo(StatusResolved))
	assert.True(t, StatusResolved.CanTransitionTo(StatusOpen))
	assert.False(t, StatusOpen.CanTransitionTo(StatusOpen))
	assert.False(t, StatusResolved.CanTransitionTo(StatusResolved))
	assert.False(t, StatusOpen.CanTransitionTo(Status("archived")))
}

func TestDoubt_Clone(t *testing.T) {
	d, err := NewDoubt(validParams())
	require.NoError(t, err)
	require.NoError(t, d.Resolve("mentor-1"))

	clone := d.Clone()
	require.NotSame(t, d, clone)
	assert.Equal(t, d.ID, clone.ID)
	assert.Equal(t, d.Status, clone.Status)

	// Mutating the clone must not leak into the original.
	*clone.ResolvedAt = clone.ResolvedAt.AddDate(1, 0, 0)
	assert.NotEqual(t, d.ResolvedAt, clone.ResolvedAt)
}
