package sharing_test

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/infra/database/memory"
	"github.com/kln-se/uml-diagrams/internal/sharing"
)

func newService(t *testing.T) (*sharing.Service, *memory.Repo) {
	t.Helper()
	repo := memory.New()
	logger := log.New(io.Discard, "", 0)
	return sharing.New(logger, repo, repo, repo), repo
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

func seedDiagram(t *testing.T, repo *memory.Repo, owner domain.UserID) domain.Diagram {
	t.Helper()
	d, err := repo.CreateDiagram(context.Background(), domain.Diagram{
		Title:   "Class diagram",
		JSON:    json.RawMessage(`{"nodes":[]}`),
		OwnerID: &owner,
	})
	require.NoError(t, err)
	return d
}

func actorOf(u domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func TestInvite(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	info, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewCopy)
	require.NoError(t, err)
	require.Equal(t, d.ID, info.DiagramID)
	require.Equal(t, domain.PermissionViewCopy, info.PermissionLevel)
	require.Equal(t, recipient.Email, info.SharedToEmail)
	require.False(t, info.SharedTo.IsPublic())

	level, err := svc.ResolvePermission(ctx, d.ID, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionViewCopy, level)
}

func TestInvite_SelfSharing(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, owner.Email, domain.PermissionViewOnly)
	require.ErrorIs(t, err, domain.ErrSelfSharing)
}

func TestInvite_RecipientMissingOrInactive(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, "nobody@example.com", domain.PermissionViewOnly)
	require.ErrorIs(t, err, domain.ErrRecipientNotFound)

	inactive := seedUser(t, repo, "gone@example.com", domain.RoleUser)
	inactive.IsActive = false
	_, err = repo.UpdateUser(ctx, inactive)
	require.NoError(t, err)

	_, err = svc.Invite(ctx, actorOf(owner), d.ID, inactive.Email, domain.PermissionViewOnly)
	require.ErrorIs(t, err, domain.ErrRecipientNotFound)
}

func TestInvite_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	// повтор с другим уровнем — всё равно конфликт пары (diagram, shared_to)
	_, err = svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewEdit)
	require.ErrorIs(t, err, domain.ErrDuplicateShare)
}

func TestInvite_Scope(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	stranger := seedUser(t, repo, "stranger@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	// не владелец: диаграмма для него «не существует»
	_, err := svc.Invite(ctx, actorOf(stranger), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// админ действует от имени любой диаграммы
	_, err = svc.Invite(ctx, actorOf(admin), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)
}

func TestSetPublic(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	c, err := svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)
	require.True(t, c.SharedTo.IsPublic())
	require.Equal(t, domain.PermissionViewOnly, c.PermissionLevel)

	// повторный вызов — не идемпотентный успех, а ошибка валидации
	_, err = svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyPublic)

	pub, err := svc.IsPublic(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, pub)
}

func TestSetPrivate_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewEdit)
	require.NoError(t, err)
	_, err = svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetPrivate(ctx, actorOf(owner), d.ID))
	// уже приватная — всё равно успех
	require.NoError(t, svc.SetPrivate(ctx, actorOf(owner), d.ID))

	pub, err := svc.IsPublic(ctx, d.ID)
	require.NoError(t, err)
	require.False(t, pub)

	// персональный грант пережил снятие публичного
	level, err := svc.ResolvePermission(ctx, d.ID, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionViewEdit, level)
}

func TestRemoveAll_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewCopy)
	require.NoError(t, err)
	_, err = svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAll(ctx, actorOf(owner), d.ID))
	require.NoError(t, svc.RemoveAll(ctx, actorOf(owner), d.ID))

	level, err := svc.ResolvePermission(ctx, d.ID, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionNone, level)
}

func TestUnshareSelf(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	require.NoError(t, svc.UnshareSelf(ctx, actorOf(recipient), d.ID))
	// гранта больше нет
	require.ErrorIs(t, svc.UnshareSelf(ctx, actorOf(recipient), d.ID), domain.ErrNotFound)
}

func TestUpdatePermission(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	info, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	updated, err := svc.UpdatePermission(ctx, actorOf(owner), info.ID, domain.PermissionViewEdit)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionViewEdit, updated.PermissionLevel)
	// shared_at неизменен
	require.Equal(t, info.SharedAt, updated.SharedAt)

	// адресат не может поднять себе уровень: запись вне его скоупа
	_, err = svc.UpdatePermission(ctx, actorOf(recipient), info.ID, domain.PermissionViewEdit)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePermission_PublicGrant(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	c, err := svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	_, err = svc.UpdatePermission(ctx, actorOf(owner), c.ID, domain.PermissionViewEdit)
	require.ErrorIs(t, err, domain.ErrPublicPermission)
}

func TestRemove_Scope(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	info, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	// чужая запись «не существует» даже для её адресата
	_, err = svc.Remove(ctx, actorOf(recipient), info.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	removed, err := svc.Remove(ctx, actorOf(owner), info.ID)
	require.NoError(t, err)
	require.Equal(t, info.ID, removed.ID)
	require.False(t, removed.SharedTo.IsPublic())

	_, err = svc.Get(ctx, actorOf(owner), info.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolvePermission_PersonalOverPublic(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", domain.RoleUser)
	d := seedDiagram(t, repo, owner.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d.ID, recipient.Email, domain.PermissionViewEdit)
	require.NoError(t, err)
	_, err = svc.SetPublic(ctx, actorOf(owner), d.ID)
	require.NoError(t, err)

	// персональный грант сильнее публичного view-only
	level, err := svc.ResolvePermission(ctx, d.ID, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionViewEdit, level)

	// без персонального гранта действует публичный
	level, err = svc.ResolvePermission(ctx, d.ID, other.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionViewOnly, level)
}

func TestList_Scope(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	owner := seedUser(t, repo, "owner@example.com", domain.RoleUser)
	other := seedUser(t, repo, "other@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "admin@example.com", domain.RoleAdmin)
	recipient := seedUser(t, repo, "friend@example.com", domain.RoleUser)

	d1 := seedDiagram(t, repo, owner.ID)
	d2 := seedDiagram(t, repo, other.ID)

	_, err := svc.Invite(ctx, actorOf(owner), d1.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)
	_, err = svc.Invite(ctx, actorOf(other), d2.ID, recipient.Email, domain.PermissionViewOnly)
	require.NoError(t, err)

	mine, err := svc.List(ctx, actorOf(owner), domain.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, d1.ID, mine[0].DiagramID)

	all, err := svc.List(ctx, actorOf(admin), domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}
