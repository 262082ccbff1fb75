package mw_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
)

type fakeTokens struct {
	claims domain.TokenClaims
	err    error
}

func (f *fakeTokens) Issue(context.Context, domain.User) (domain.Token, domain.TokenClaims, error) {
	return "", domain.TokenClaims{}, errors.New("not implemented")
}

func (f *fakeTokens) Parse(context.Context, domain.Token) (domain.TokenClaims, error) {
	return f.claims, f.err
}

type fakeBlacklist struct {
	revoked map[string]bool
}

func (f *fakeBlacklist) Revoke(_ context.Context, jti string, _ time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func TestWithRequestID(t *testing.T) {
	var got string
	h := mw.WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = mw.RequestIDFromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-ID"))

	// клиентский X-Request-ID проходит насквозь
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-42")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-42", got)
}

func TestRequireAuth(t *testing.T) {
	uid := uuid.New()
	deps := mw.AuthDeps{
		Tokens: &fakeTokens{claims: domain.TokenClaims{
			JTI:    "jti-1",
			UserID: uid,
			Email:  "a@example.com",
			Role:   domain.RoleAdmin,
		}},
		Blacklist: &fakeBlacklist{},
	}

	var actor domain.Actor
	var seen bool
	h := mw.RequireAuth(deps, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, seen = mw.ActorFromCtx(r.Context())
	}))

	// без токена — 401, хендлер не вызывается
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
	assert.Contains(t, rec.Body.String(), "detail")

	// с валидным токеном актор восстановлен из клеймов
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	h.ServeHTTP(rec, req)
	require.True(t, seen)
	assert.Equal(t, uid, actor.ID)
	assert.Equal(t, domain.RoleAdmin, actor.Role)
}

func TestRequireAuth_Revoked(t *testing.T) {
	bl := &fakeBlacklist{}
	require.NoError(t, bl.Revoke(context.Background(), "jti-1", time.Now().Add(time.Hour)))

	deps := mw.AuthDeps{
		Tokens:    &fakeTokens{claims: domain.TokenClaims{JTI: "jti-1"}},
		Blacklist: bl,
	}

	called := false
	h := mw.RequireAuth(deps, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestOptionalAuth(t *testing.T) {
	deps := mw.AuthDeps{
		Tokens:    &fakeTokens{err: errors.New("bad signature")},
		Blacklist: &fakeBlacklist{},
	}

	var ok bool
	h := mw.OptionalAuth(deps, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = mw.ActorFromCtx(r.Context())
	}))

	// невалидный токен не валит запрос, просто идём анонимно
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok)
}
