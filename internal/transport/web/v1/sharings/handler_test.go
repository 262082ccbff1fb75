package sharings_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/infra/database/memory"
	"github.com/kln-se/uml-diagrams/internal/sharing"
	"github.com/kln-se/uml-diagrams/internal/transport/web/v1/sharings"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) { return c.data[key], nil }
func (c *fakeCache) Set(_ context.Context, key string, val []byte, _ int) error {
	c.data[key] = val
	return nil
}
func (c *fakeCache) SetNX(_ context.Context, key string, val []byte, _ int) (bool, error) {
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = val
	return true, nil
}
func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}
func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close()                     {}

type fixture struct {
	h     *sharings.Handler
	repo  *memory.Repo
	cache *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.New()
	logger := log.New(io.Discard, "", 0)
	sh := sharing.New(logger, repo, repo, repo)
	cache := newFakeCache()
	return &fixture{
		h:     &sharings.Handler{Log: logger, Sharing: sh, Cache: cache},
		repo:  repo,
		cache: cache,
	}
}

func (f *fixture) seedUser(t *testing.T, email string) domain.User {
	t.Helper()
	u, err := f.repo.CreateUser(context.Background(), domain.User{Email: email, PassHash: "x", Role: domain.RoleUser, IsActive: true})
	require.NoError(t, err)
	return u
}

func (f *fixture) seedDiagram(t *testing.T, owner domain.UserID) domain.Diagram {
	t.Helper()
	d, err := f.repo.CreateDiagram(context.Background(), domain.Diagram{
		Title:   "Flowchart",
		JSON:    []byte(`{"nodes":[]}`),
		OwnerID: &owner,
	})
	require.NoError(t, err)
	return d
}

func deleteRequest(actor domain.Actor, collabID domain.CollaboratorID) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sharings/"+collabID.String(), nil)
	req = req.WithContext(domain.WithActor(req.Context(), actor))
	req.SetPathValue("id", collabID.String())
	return req
}

func TestDelete_PublicGrantDropsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	d := f.seedDiagram(t, owner.ID)
	actor := domain.Actor{ID: owner.ID, Role: owner.Role}

	c, err := f.h.Sharing.SetPublic(ctx, actor, d.ID)
	require.NoError(t, err)

	// кэш прогрет анонимным публичным чтением
	key := domain.CacheKeyPublicDiagram(d.ID)
	require.NoError(t, f.cache.Set(ctx, key, []byte(`{"id":"cached"}`), 60))

	rec := httptest.NewRecorder()
	f.h.Delete(rec, deleteRequest(actor, c.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// грант снят и закэшированный ответ тоже: анонимное чтение больше невозможно
	assert.Empty(t, f.cache.data[key])
	pub, err := f.h.Sharing.IsPublic(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, pub)
}

func TestDelete_PersonalGrantKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.seedUser(t, "owner@example.com")
	friend := f.seedUser(t, "friend@example.com")
	d := f.seedDiagram(t, owner.ID)
	actor := domain.Actor{ID: owner.ID, Role: owner.Role}

	_, err := f.h.Sharing.SetPublic(ctx, actor, d.ID)
	require.NoError(t, err)
	info, err := f.h.Sharing.Invite(ctx, actor, d.ID, friend.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	key := domain.CacheKeyPublicDiagram(d.ID)
	require.NoError(t, f.cache.Set(ctx, key, []byte(`{"id":"cached"}`), 60))

	// удаление персонального гранта публичную видимость не меняет
	rec := httptest.NewRecorder()
	f.h.Delete(rec, deleteRequest(actor, info.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, f.cache.data[key])
}
