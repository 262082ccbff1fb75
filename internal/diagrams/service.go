package diagrams

import (
	"context"
	"encoding/json"
	"log"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/sharing"
)

// Service — операции над диаграммами. Видимость и мутации гейтятся
// предикатами из internal/sharing; сами записи живут в DiagramsRepo.
type Service struct {
	Log     *log.Logger
	Repo    domain.DiagramsRepo
	Users   domain.UsersRepo
	Sharing *sharing.Service
}

func New(logger *log.Logger, repo domain.DiagramsRepo, users domain.UsersRepo, sh *sharing.Service) *Service {
	return &Service{Log: logger, Repo: repo, Users: users, Sharing: sh}
}

type CreateInput struct {
	Title       string
	JSON        json.RawMessage
	Description string
	// OwnerID учитывается только для админа: он может завести
	// диаграмму на любого пользователя.
	OwnerID *domain.UserID
}

// Частичное обновление: nil-поля не трогаем.
type UpdateInput struct {
	Title       *string
	JSON        json.RawMessage
	Description *string
	OwnerID     *domain.UserID // переназначить владельца может только админ
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (domain.Diagram, error) {
	if in.Title == "" || len(in.JSON) == 0 {
		return domain.Diagram{}, domain.ErrBadParams
	}

	owner := actor.ID
	if in.OwnerID != nil && actor.IsAdmin() {
		u, err := s.Users.UserByID(ctx, *in.OwnerID)
		if err != nil {
			return domain.Diagram{}, domain.ErrBadParams
		}
		owner = u.ID
	}

	d := domain.Diagram{
		Title:       in.Title,
		JSON:        in.JSON,
		Description: in.Description,
		OwnerID:     &owner,
	}
	created, err := s.Repo.CreateDiagram(ctx, d)
	if err != nil {
		return domain.Diagram{}, err
	}
	s.Log.Printf("create ok diagram=%s owner=%s", created.ID, owner)
	return created, nil
}

// Get — диаграмма в рамках прав актора (владелец или админ).
func (s *Service) Get(ctx context.Context, actor domain.Actor, id domain.DiagramID) (domain.Diagram, error) {
	d, err := s.Repo.DiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	if !sharing.IsOwnerOrAdmin(actor, d) {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id domain.DiagramID, in UpdateInput) (domain.Diagram, error) {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return domain.Diagram{}, domain.ErrBadParams
		}
		d.Title = *in.Title
	}
	if len(in.JSON) > 0 {
		d.JSON = in.JSON
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.OwnerID != nil && actor.IsAdmin() {
		u, err := s.Users.UserByID(ctx, *in.OwnerID)
		if err != nil {
			return domain.Diagram{}, domain.ErrBadParams
		}
		owner := u.ID
		d.OwnerID = &owner
	}

	updated, err := s.Repo.UpdateDiagram(ctx, d)
	if err != nil {
		return domain.Diagram{}, err
	}
	s.Log.Printf("update ok diagram=%s", updated.ID)
	return updated, nil
}

// Delete удаляет диаграмму; записи шаринга уходят каскадом в БД.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id domain.DiagramID) error {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteDiagram(ctx, d.ID); err != nil {
		return err
	}
	s.Log.Printf("delete ok diagram=%s", d.ID)
	return nil
}

func (s *Service) List(ctx context.Context, actor domain.Actor, p domain.Page) ([]domain.DiagramListItem, error) {
	return s.Repo.DiagramsVisibleTo(ctx, actor, p.Normalize())
}

// copyOf — вставка новой диаграммы по образцу исходной: новый id,
// заголовок "Copy of ...", тот же JSON, владелец — актор, свежие метки.
// Одна вставка, исходник не трогаем.
func (s *Service) copyOf(ctx context.Context, actor domain.Actor, src domain.Diagram, description *string) (domain.Diagram, error) {
	owner := actor.ID
	cp := domain.Diagram{
		Title:       "Copy of " + src.Title,
		JSON:        src.JSON,
		Description: src.Description,
		OwnerID:     &owner,
	}
	if description != nil {
		cp.Description = *description
	}
	created, err := s.Repo.CreateDiagram(ctx, cp)
	if err != nil {
		return domain.Diagram{}, err
	}
	s.Log.Printf("copy ok src=%s dst=%s owner=%s", src.ID, created.ID, owner)
	return created, nil
}

// Copy — копия собственной диаграммы (или любой — для админа).
func (s *Service) Copy(ctx context.Context, actor domain.Actor, id domain.DiagramID, description *string) (domain.Diagram, error) {
	src, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}
	return s.copyOf(ctx, actor, src, description)
}

// --- Поверхность «расшарено мне» ---

func (s *Service) SharedList(ctx context.Context, actor domain.Actor, p domain.Page) ([]domain.SharedDiagramItem, error) {
	return s.Repo.DiagramsSharedTo(ctx, actor.ID, p.Normalize())
}

// SharedGet — диаграмма, расшаренная актору персонально.
func (s *Service) SharedGet(ctx context.Context, actor domain.Actor, id domain.DiagramID) (domain.Diagram, error) {
	if _, err := s.Sharing.Shares.CollaboratorFor(ctx, id, domain.TargetUser(actor.ID)); err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	d, err := s.Repo.DiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}

// SharedCopy — копия чужой диаграммы при уровне view-copy и выше.
func (s *Service) SharedCopy(ctx context.Context, actor domain.Actor, id domain.DiagramID, description *string) (domain.Diagram, error) {
	ok, err := s.Sharing.IsCollaborator(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}
	if !ok {
		return domain.Diagram{}, domain.ErrNotFound
	}
	ok, err = s.Sharing.HasViewCopyOrBetter(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}
	if !ok {
		return domain.Diagram{}, domain.ErrForbidden
	}
	src, err := s.Repo.DiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return s.copyOf(ctx, actor, src, description)
}

type SaveInput struct {
	JSON        json.RawMessage
	Description *string
}

// SharedSave — сохранение правок в чужую диаграмму при уровне view-edit.
// Меняются только json и description; заголовок и владелец неизменны.
func (s *Service) SharedSave(ctx context.Context, actor domain.Actor, id domain.DiagramID, in SaveInput) (domain.Diagram, error) {
	ok, err := s.Sharing.IsCollaborator(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}
	if !ok {
		return domain.Diagram{}, domain.ErrNotFound
	}
	ok, err = s.Sharing.HasViewEdit(ctx, actor, id)
	if err != nil {
		return domain.Diagram{}, err
	}
	if !ok {
		return domain.Diagram{}, domain.ErrForbidden
	}

	d, err := s.Repo.DiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	if len(in.JSON) > 0 {
		d.JSON = in.JSON
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	updated, err := s.Repo.UpdateDiagram(ctx, d)
	if err != nil {
		return domain.Diagram{}, err
	}
	s.Log.Printf("shared save ok diagram=%s editor=%s", updated.ID, actor.ID)
	return updated, nil
}

// PublicGet — публично расшаренная диаграмма, без аутентификации.
func (s *Service) PublicGet(ctx context.Context, id domain.DiagramID) (domain.Diagram, error) {
	d, err := s.Repo.PublicDiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}
