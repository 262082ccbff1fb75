package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/auth/password"
)

func TestHashVerify(t *testing.T) {
	h := password.NewDefault()

	hash, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "Str0ng!Pass")

	ok, err := h.Verify("Str0ng!Pass", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	h := password.NewDefault()

	h1, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	h2, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
