package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

func TestPermissionLevel_AtLeast(t *testing.T) {
	assert.True(t, domain.PermissionViewEdit.AtLeast(domain.PermissionViewCopy))
	assert.True(t, domain.PermissionViewCopy.AtLeast(domain.PermissionViewCopy))
	assert.False(t, domain.PermissionViewOnly.AtLeast(domain.PermissionViewCopy))
	assert.False(t, domain.PermissionNone.AtLeast(domain.PermissionViewOnly))
	assert.True(t, domain.PermissionViewOnly.AtLeast(domain.PermissionNone))
}

func TestParsePermissionLevel(t *testing.T) {
	for _, s := range []string{"view-only", "view-copy", "view-edit"} {
		level, err := domain.ParsePermissionLevel(s)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionLevel(s), level)
	}

	for _, s := range []string{"", "none", "VIEW-ONLY", "edit"} {
		_, err := domain.ParsePermissionLevel(s)
		assert.ErrorIs(t, err, domain.ErrBadParams, "input %q", s)
	}
}

func TestShareTarget(t *testing.T) {
	id := uuid.New()

	personal := domain.TargetUser(id)
	assert.False(t, personal.IsPublic())
	got, ok := personal.UserID()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	public := domain.TargetPublic()
	assert.True(t, public.IsPublic())
	_, ok = public.UserID()
	assert.False(t, ok)
}

func TestNewCollaborator(t *testing.T) {
	diagram := uuid.New()
	user := uuid.New()

	c, err := domain.NewCollaborator(diagram, domain.TargetUser(user), domain.PermissionViewEdit)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionViewEdit, c.PermissionLevel)

	// публичный адресат принудительно view-only, какой бы уровень ни просили
	c, err = domain.NewCollaborator(diagram, domain.TargetPublic(), domain.PermissionViewEdit)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionViewOnly, c.PermissionLevel)

	_, err = domain.NewCollaborator(diagram, domain.TargetUser(user), domain.PermissionNone)
	assert.ErrorIs(t, err, domain.ErrBadParams)
}
