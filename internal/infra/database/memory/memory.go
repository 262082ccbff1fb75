// Package memory — репозиторий в памяти с тем же контрактом ошибок,
// что и у postgres-слоя. Используется в тестах сервисов вместо БД.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kln-se/uml-diagrams/internal/domain"
)

type Repo struct {
	mu       sync.Mutex
	users    map[domain.UserID]domain.User
	diagrams map[domain.DiagramID]domain.Diagram
	collabs  map[domain.CollaboratorID]domain.Collaborator
}

func New() *Repo {
	return &Repo{
		users:    make(map[domain.UserID]domain.User),
		diagrams: make(map[domain.DiagramID]domain.Diagram),
		collabs:  make(map[domain.CollaboratorID]domain.Collaborator),
	}
}

func (r *Repo) Close() {}

func (r *Repo) Ping(context.Context) error { return nil }

// --- UsersRepo ---

func (r *Repo) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			// уникальный индекс по email
			return domain.User{}, domain.ErrBadParams
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *Repo) UserByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *Repo) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *Repo) UpdateUser(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.User{}, domain.ErrNotFound
	}
	r.users[u.ID] = u
	return u, nil
}

// --- DiagramsRepo ---

func (r *Repo) CreateDiagram(_ context.Context, d domain.Diagram) (domain.Diagram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.diagrams[d.ID] = d
	return d, nil
}

func (r *Repo) DiagramByID(_ context.Context, id domain.DiagramID) (domain.Diagram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagrams[id]
	if !ok {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}

func (r *Repo) UpdateDiagram(_ context.Context, d domain.Diagram) (domain.Diagram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.diagrams[d.ID]; !ok {
		return domain.Diagram{}, domain.ErrNotFound
	}
	d.UpdatedAt = time.Now()
	r.diagrams[d.ID] = d
	return d, nil
}

func (r *Repo) DeleteDiagram(_ context.Context, id domain.DiagramID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.diagrams[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.diagrams, id)
	// каскад, как FK в БД
	for cid, c := range r.collabs {
		if c.DiagramID == id {
			delete(r.collabs, cid)
		}
	}
	return nil
}

func (r *Repo) DiagramsVisibleTo(_ context.Context, actor domain.Actor, p domain.Page) ([]domain.DiagramListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DiagramListItem
	for _, d := range r.diagrams {
		if !actor.IsAdmin() && !d.OwnedBy(actor.ID) {
			continue
		}
		out = append(out, domain.DiagramListItem{Diagram: d, IsPublic: r.hasPublicLocked(d.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return pageSlice(out, p), nil
}

func (r *Repo) DiagramsSharedTo(_ context.Context, user domain.UserID, p domain.Page) ([]domain.SharedDiagramItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SharedDiagramItem
	for _, c := range r.collabs {
		uid, ok := c.SharedTo.UserID()
		if !ok || uid != user {
			continue
		}
		d, ok := r.diagrams[c.DiagramID]
		if !ok {
			continue
		}
		out = append(out, domain.SharedDiagramItem{Diagram: d, PermissionLevel: c.PermissionLevel})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return pageSlice(out, p), nil
}

func (r *Repo) PublicDiagramByID(_ context.Context, id domain.DiagramID) (domain.Diagram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasPublicLocked(id) {
		return domain.Diagram{}, domain.ErrNotFound
	}
	d, ok := r.diagrams[id]
	if !ok {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}

// --- SharingRepo ---

func (r *Repo) CreateCollaborator(_ context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.collabs {
		if ex.DiagramID == c.DiagramID && sameTarget(ex.SharedTo, c.SharedTo) {
			if c.SharedTo.IsPublic() {
				return domain.Collaborator{}, domain.ErrAlreadyPublic
			}
			return domain.Collaborator{}, domain.ErrDuplicateShare
		}
	}
	if c.SharedTo.IsPublic() && c.PermissionLevel != domain.PermissionViewOnly {
		return domain.Collaborator{}, domain.ErrPublicPermission
	}
	c.ID = uuid.New()
	c.SharedAt = time.Now()
	r.collabs[c.ID] = c
	return c, nil
}

func (r *Repo) CollaboratorByID(_ context.Context, id domain.CollaboratorID) (domain.CollaboratorInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collabs[id]
	if !ok {
		return domain.CollaboratorInfo{}, domain.ErrNotFound
	}
	return r.infoLocked(c), nil
}

func (r *Repo) CollaboratorFor(_ context.Context, diagram domain.DiagramID, target domain.ShareTarget) (domain.Collaborator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.collabs {
		if c.DiagramID == diagram && sameTarget(c.SharedTo, target) {
			return c, nil
		}
	}
	return domain.Collaborator{}, domain.ErrNotFound
}

func (r *Repo) CollaboratorsScoped(_ context.Context, actor domain.Actor, p domain.Page) ([]domain.CollaboratorInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CollaboratorInfo
	for _, c := range r.collabs {
		if !actor.IsAdmin() {
			d, ok := r.diagrams[c.DiagramID]
			if !ok || !d.OwnedBy(actor.ID) {
				continue
			}
		}
		out = append(out, r.infoLocked(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SharedAt.After(out[j].SharedAt) })
	return pageSlice(out, p), nil
}

func (r *Repo) UpdatePermissionLevel(_ context.Context, id domain.CollaboratorID, level domain.PermissionLevel) (domain.CollaboratorInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collabs[id]
	if !ok {
		return domain.CollaboratorInfo{}, domain.ErrNotFound
	}
	if c.SharedTo.IsPublic() && level != domain.PermissionViewOnly {
		return domain.CollaboratorInfo{}, domain.ErrPublicPermission
	}
	c.PermissionLevel = level
	r.collabs[id] = c
	return r.infoLocked(c), nil
}

func (r *Repo) DeleteCollaborator(_ context.Context, id domain.CollaboratorID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collabs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.collabs, id)
	return nil
}

func (r *Repo) DeleteAllForDiagram(_ context.Context, diagram domain.DiagramID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.collabs {
		if c.DiagramID == diagram {
			delete(r.collabs, id)
		}
	}
	return nil
}

func (r *Repo) DeletePublicShare(_ context.Context, diagram domain.DiagramID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.collabs {
		if c.DiagramID == diagram && c.SharedTo.IsPublic() {
			delete(r.collabs, id)
		}
	}
	return nil
}

func (r *Repo) DeleteForRecipient(_ context.Context, diagram domain.DiagramID, user domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.collabs {
		uid, ok := c.SharedTo.UserID()
		if ok && c.DiagramID == diagram && uid == user {
			delete(r.collabs, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- helpers ---

func (r *Repo) hasPublicLocked(id domain.DiagramID) bool {
	for _, c := range r.collabs {
		if c.DiagramID == id && c.SharedTo.IsPublic() {
			return true
		}
	}
	return false
}

func (r *Repo) infoLocked(c domain.Collaborator) domain.CollaboratorInfo {
	info := domain.CollaboratorInfo{Collaborator: c}
	if uid, ok := c.SharedTo.UserID(); ok {
		if u, ok := r.users[uid]; ok {
			info.SharedToEmail = u.Email
		}
	}
	return info
}

func sameTarget(a, b domain.ShareTarget) bool {
	if a.IsPublic() != b.IsPublic() {
		return false
	}
	if a.IsPublic() {
		return true
	}
	au, _ := a.UserID()
	bu, _ := b.UserID()
	return au == bu
}

func pageSlice[T any](in []T, p domain.Page) []T {
	if p.Offset >= len(in) {
		return nil
	}
	in = in[p.Offset:]
	if p.Limit > 0 && p.Limit < len(in) {
		in = in[:p.Limit]
	}
	return in
}
