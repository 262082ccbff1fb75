package diagrams_test

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/diagrams"
	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/infra/database/memory"
	"github.com/kln-se/uml-diagrams/internal/sharing"
)

func newServices(t *testing.T) (*diagrams.Service, *sharing.Service, *memory.Repo) {
	t.Helper()
	repo := memory.New()
	logger := log.New(io.Discard, "", 0)
	sh := sharing.New(logger, repo, repo, repo)
	return diagrams.New(logger, repo, repo, sh), sh, repo
}

func seedUser(t *testing.T, repo *memory.Repo, email string, role domain.Role) domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), domain.User{
		Email:    email,
		PassHash: "x",
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func actorOf(u domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func mustCreate(t *testing.T, svc *diagrams.Service, actor domain.Actor) domain.Diagram {
	t.Helper()
	d, err := svc.Create(context.Background(), actor, diagrams.CreateInput{
		Title: "Sequence diagram",
		JSON:  json.RawMessage(`{"nodes":[{"id":1}]}`),
	})
	require.NoError(t, err)
	return d
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)

	d, err := svc.Create(ctx, actorOf(owner), diagrams.CreateInput{
		Title:       "Class diagram",
		JSON:        json.RawMessage(`{}`),
		Description: "initial",
	})
	require.NoError(t, err)
	require.Equal(t, "Class diagram", d.Title)
	require.NotNil(t, d.OwnerID)
	require.Equal(t, owner.ID, *d.OwnerID)

	_, err = svc.Create(ctx, actorOf(owner), diagrams.CreateInput{JSON: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, domain.ErrBadParams)
	_, err = svc.Create(ctx, actorOf(owner), diagrams.CreateInput{Title: "no payload"})
	require.ErrorIs(t, err, domain.ErrBadParams)
}

func TestCreate_AdminAssignsOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newServices(t)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)
	user := seedUser(t, repo, "user@example.com", domain.RoleUser)

	d, err := svc.Create(ctx, actorOf(admin), diagrams.CreateInput{
		Title:   "For user",
		JSON:    json.RawMessage(`{}`),
		OwnerID: &user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, *d.OwnerID)

	// не-админ не может назначить чужого владельца
	d2, err := svc.Create(ctx, actorOf(user), diagrams.CreateInput{
		Title:   "Mine anyway",
		JSON:    json.RawMessage(`{}`),
		OwnerID: &admin.ID,
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, *d2.OwnerID)
}

func TestGet_Scope(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	stranger := seedUser(t, repo, "stranger@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := svc.Get(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	// чужая диаграмма неотличима от несуществующей
	_, err = svc.Get(ctx, actorOf(stranger), d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, actorOf(admin), d.ID)
	require.NoError(t, err)
}

func TestUpdate_Partial(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	desc := "updated"
	got, err := svc.Update(ctx, actorOf(owner), d.ID, diagrams.UpdateInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, d.Title, got.Title)
	require.Equal(t, "updated", got.Description)
	require.JSONEq(t, string(d.JSON), string(got.JSON))

	empty := ""
	_, err = svc.Update(ctx, actorOf(owner), d.ID, diagrams.UpdateInput{Title: &empty})
	require.ErrorIs(t, err, domain.ErrBadParams)
}

func TestDelete_CascadesShares(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := sh.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewEdit)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actorOf(owner), d.ID))

	_, err = svc.Get(ctx, actorOf(owner), d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	level, err := sh.ResolvePermission(ctx, d.ID, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionNone, level)
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	cp, err := svc.Copy(ctx, actorOf(owner), d.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "Copy of "+d.Title, cp.Title)
	require.JSONEq(t, string(d.JSON), string(cp.JSON))
	require.Equal(t, owner.ID, *cp.OwnerID)
	require.NotEqual(t, d.ID, cp.ID)

	desc := "my note"
	cp2, err := svc.Copy(ctx, actorOf(owner), d.ID, &desc)
	require.NoError(t, err)
	require.Equal(t, "my note", cp2.Description)
}

func TestSharedGet(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := sh.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	got, err := svc.SharedGet(ctx, actorOf(recipient), d.ID)
	require.NoError(t, err)
	require.Equal(t, d.ID, got.ID)

	// поверхность shared-with-me требует персональный грант,
	// публичный доступ сюда не транслируется
	_, err = sh.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)
	_, err = svc.SharedGet(ctx, actorOf(other), d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSharedCopy_Gating(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	viewer := seedUser(t, repo, "viewer@example.com", domain.RoleUser)
	copier := seedUser(t, repo, "copier@example.com", domain.RoleUser)
	stranger := seedUser(t, repo, "stranger@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := sh.Invite(ctx, actorOf(owner), d.ID, viewer.Email, domain.PermissionViewOnly)
	require.NoError(t, err)
	_, err = sh.Invite(ctx, actorOf(owner), d.ID, copier.Email, domain.PermissionViewCopy)
	require.NoError(t, err)

	// без гранта — 404, с недостаточным — 403
	_, err = svc.SharedCopy(ctx, actorOf(stranger), d.ID, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.SharedCopy(ctx, actorOf(viewer), d.ID, nil)
	require.ErrorIs(t, err, domain.ErrForbidden)

	cp, err := svc.SharedCopy(ctx, actorOf(copier), d.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "Copy of "+d.Title, cp.Title)
	require.Equal(t, copier.ID, *cp.OwnerID)
}

func TestSharedSave_Gating(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	copier := seedUser(t, repo, "copier@example.com", domain.RoleUser)
	editor := seedUser(t, repo, "editor@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := sh.Invite(ctx, actorOf(owner), d.ID, copier.Email, domain.PermissionViewCopy)
	require.NoError(t, err)
	_, err = sh.Invite(ctx, actorOf(owner), d.ID, editor.Email, domain.PermissionViewEdit)
	require.NoError(t, err)

	_, err = svc.SharedSave(ctx, actorOf(copier), d.ID, diagrams.SaveInput{JSON: json.RawMessage(`{"v":2}`)})
	require.ErrorIs(t, err, domain.ErrForbidden)

	desc := "edited by collaborator"
	got, err := svc.SharedSave(ctx, actorOf(editor), d.ID, diagrams.SaveInput{
		JSON:        json.RawMessage(`{"v":2}`),
		Description: &desc,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"v":2}`, string(got.JSON))
	require.Equal(t, desc, got.Description)
	// заголовок и владелец неизменны
	require.Equal(t, d.Title, got.Title)
	require.Equal(t, owner.ID, *got.OwnerID)
}

func TestPublicGet(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := mustCreate(t, svc, actorOf(owner))

	_, err := svc.PublicGet(ctx, d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = sh.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	got, err := svc.PublicGet(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, d.ID, got.ID)

	require.NoError(t, sh.SetPrivate(ctx, actorOf(owner), d.ID))
	_, err = svc.PublicGet(ctx, d.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_AnnotatesPublic(t *testing.T) {
	ctx := context.Background()
	svc, sh, repo := newServices(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d1 := mustCreate(t, svc, actorOf(owner))
	d2 := mustCreate(t, svc, actorOf(owner))

	_, err := sh.SetPublic(ctx, actorOf(owner), d1.ID)
	require.NoError(t, err)

	items, err := svc.List(ctx, actorOf(owner), domain.Page{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[domain.DiagramID]bool{}
	for _, it := range items {
		byID[it.ID] = it.IsPublic
	}
	require.True(t, byID[d1.ID])
	require.False(t, byID[d2.ID])
}
