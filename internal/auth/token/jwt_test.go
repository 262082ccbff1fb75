package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/auth/token"
	"github.com/kln-se/uml-diagrams/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Role:  domain.RoleAdmin,
	}
}

func TestIssueParse(t *testing.T) {
	ctx := context.Background()
	m := token.New("secret", "uml-diagrams", time.Hour)
	u := testUser()

	raw, issued, err := m.Issue(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.NotEmpty(t, issued.JTI)

	parsed, err := m.Parse(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, issued.JTI, parsed.JTI)
	require.Equal(t, u.ID, parsed.UserID)
	require.Equal(t, u.Email, parsed.Email)
	// роль восстанавливается из токена без похода в БД
	require.Equal(t, domain.RoleAdmin, parsed.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	ctx := context.Background()
	m := token.New("secret", "uml-diagrams", time.Hour)
	other := token.New("different", "uml-diagrams", time.Hour)

	raw, _, err := m.Issue(ctx, testUser())
	require.NoError(t, err)

	_, err = other.Parse(ctx, raw)
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	ctx := context.Background()
	m := token.New("secret", "uml-diagrams", -time.Minute)

	raw, _, err := m.Issue(ctx, testUser())
	require.NoError(t, err)

	_, err = m.Parse(ctx, raw)
	require.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	m := token.New("secret", "uml-diagrams", time.Hour)
	_, err := m.Parse(context.Background(), "not.a.jwt")
	require.Error(t, err)
}
