package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "student", want: RoleStudent},
		{input: "mentor", want: RoleMentor},
		{input: "STUDENT", want: RoleStudent},
		{input: " Mentor ", want: RoleMentor},
		{input: "admin", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestNewIdentity(t *testing.T) {
	ident, err := NewIdentity("user-1", RoleStudent)
	require.NoError(t, err)

	assert.True(t, ident.IsStudent())
	assert.False(t, ident.IsMentor())
	assert.True(t, ident.Owns("user-1"))
	assert.False(t, ident.Owns("user-2"))
}

func TestNewIdentity_Invalid(t *testing.T) {
	_, err := NewIdentity("", RoleStudent)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewIdentity("user-1", Role("admin"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRequireRole(t *testing.T) {
	student, err := NewIdentity("user-1", RoleStudent)
	require.NoError(t, err)

	assert.NoError(t, RequireRole(student, RoleStudent))
	assert.ErrorIs(t, RequireRole(student, RoleMentor), ErrRoleMismatch)
	assert.Error(t, RequireRole(nil, RoleStudent))
}

func TestRequireOwnership(t *testing.T) {
	owner, err := NewIdentity("user-1", RoleStudent)
	require.NoError(t, err)

	assert.NoError(t, RequireOwnership(owner, "user-1"))
	assert.ErrorIs(t, RequireOwnership(owner, "user-2"), ErrNotOwner)
}

func TestRequireStudentOwner(t *testing.T) {
	student, err := NewIdentity("user-1", RoleStudent)
	require.NoError(t, err)
	mentor, err := NewIdentity("user-1", RoleMentor)
	require.NoError(t, err)

	assert.NoError(t, RequireStudentOwner(student, "user-1"))
	assert.ErrorIs(t, RequireStudentOwner(student, "user-2"), ErrNotOwner)
	assert.ErrorIs(t, RequireStudentOwner(mentor, "user-1"), ErrRoleMismatch)
}
