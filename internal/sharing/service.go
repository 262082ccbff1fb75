package sharing

import (
	"context"
	"errors"
	"log"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// Service — движок шаринга: создание, валидация, изменение и выборка
// записей Collaborator. Единственное место с настоящей доменной валидацией;
// гонки (двойной share-set-public) разруливает не он, а ограничения БД —
// репозиторий возвращает уже доменную ошибку.
type Service struct {
	Log      *log.Logger
	Users    domain.UsersRepo
	Diagrams domain.DiagramsRepo
	Shares   domain.SharingRepo
}

func New(logger *log.Logger, users domain.UsersRepo, diagrams domain.DiagramsRepo, shares domain.SharingRepo) *Service {
	return &Service{Log: logger, Users: users, Diagrams: diagrams, Shares: shares}
}

// diagramForOwner возвращает диаграмму, только если актор — её владелец
// или админ. «Нет прав» и «нет диаграммы» намеренно неразличимы.
func (s *Service) diagramForOwner(ctx context.Context, actor domain.Actor, id domain.DiagramID) (domain.Diagram, error) {
	d, err := s.Diagrams.DiagramByID(ctx, id)
	if err != nil {
		return domain.Diagram{}, domain.ErrNotFound
	}
	if !actor.IsAdmin() && !d.OwnedBy(actor.ID) {
		return domain.Diagram{}, domain.ErrNotFound
	}
	return d, nil
}

// Invite создаёт приглашение: диаграмма расшаривается пользователю по email
// на заданном уровне. Не идемпотентно: повторный инвайт — ErrDuplicateShare.
func (s *Service) Invite(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID, recipientEmail string, level domain.PermissionLevel) (domain.CollaboratorInfo, error) {
	d, err := s.diagramForOwner(ctx, actor, diagramID)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}

	recipient, err := s.Users.UserByEmail(ctx, recipientEmail)
	if err != nil || !recipient.IsActive {
		return domain.CollaboratorInfo{}, domain.ErrRecipientNotFound
	}

	if d.OwnedBy(recipient.ID) {
		return domain.CollaboratorInfo{}, domain.ErrSelfSharing
	}

	c, err := domain.NewCollaborator(d.ID, domain.TargetUser(recipient.ID), level)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}

	created, err := s.Shares.CreateCollaborator(ctx, c)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}
	s.Log.Printf("invite ok diagram=%s shared_to=%s level=%s", d.ID, recipient.Email, created.PermissionLevel)
	return domain.CollaboratorInfo{Collaborator: created, SharedToEmail: recipient.Email}, nil
}

// SetPublic делает диаграмму публичной: отдельная, более узкая точка входа,
// чем Invite — уровень всегда view-only. Повторный вызов — ErrAlreadyPublic
// (ошибка валидации, не идемпотентный успех).
func (s *Service) SetPublic(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) (domain.Collaborator, error) {
	d, err := s.diagramForOwner(ctx, actor, diagramID)
	if err != nil {
		return domain.Collaborator{}, err
	}

	c, err := domain.NewCollaborator(d.ID, domain.TargetPublic(), domain.PermissionViewOnly)
	if err != nil {
		return domain.Collaborator{}, err
	}

	created, err := s.Shares.CreateCollaborator(ctx, c)
	if err != nil {
		return domain.Collaborator{}, err
	}
	s.Log.Printf("set public ok diagram=%s", d.ID)
	return created, nil
}

// SetPrivate убирает публичный шаринг. Идемпотентно: уже приватная — успех.
func (s *Service) SetPrivate(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) error {
	d, err := s.diagramForOwner(ctx, actor, diagramID)
	if err != nil {
		return err
	}
	if err := s.Shares.DeletePublicShare(ctx, d.ID); err != nil {
		return err
	}
	s.Log.Printf("set private ok diagram=%s", d.ID)
	return nil
}

// RemoveAll удаляет все шаринги диаграммы. Идемпотентно.
func (s *Service) RemoveAll(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) error {
	d, err := s.diagramForOwner(ctx, actor, diagramID)
	if err != nil {
		return err
	}
	if err := s.Shares.DeleteAllForDiagram(ctx, d.ID); err != nil {
		return err
	}
	s.Log.Printf("remove all collaborators ok diagram=%s", d.ID)
	return nil
}

// UnshareSelf: адресат шаринга отписывает себя от диаграммы.
// ErrNotFound, если актор сейчас не является её коллаборатором.
func (s *Service) UnshareSelf(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) error {
	if err := s.Shares.DeleteForRecipient(ctx, diagramID, actor.ID); err != nil {
		return err
	}
	s.Log.Printf("unshare self ok diagram=%s user=%s", diagramID, actor.ID)
	return nil
}

// collaboratorForOwner — скоуп-проверка записи шаринга: владелец диаграммы
// или админ; для остальных запись «не существует».
func (s *Service) collaboratorForOwner(ctx context.Context, actor domain.Actor, id domain.CollaboratorID) (domain.CollaboratorInfo, error) {
	info, err := s.Shares.CollaboratorByID(ctx, id)
	if err != nil {
		return domain.CollaboratorInfo{}, domain.ErrNotFound
	}
	if _, err := s.diagramForOwner(ctx, actor, info.DiagramID); err != nil {
		return domain.CollaboratorInfo{}, domain.ErrNotFound
	}
	return info, nil
}

// Get возвращает запись шаринга в рамках прав актора.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id domain.CollaboratorID) (domain.CollaboratorInfo, error) {
	return s.collaboratorForOwner(ctx, actor, id)
}

// List — все записи шаринга в рамках прав актора (админ — все, иначе свои).
func (s *Service) List(ctx context.Context, actor domain.Actor, p domain.Page) ([]domain.CollaboratorInfo, error) {
	return s.Shares.CollaboratorsScoped(ctx, actor, p.Normalize())
}

// UpdatePermission меняет уровень доступа существующего шаринга.
// shared_at не меняется; адресат не может повысить себе уровень сам
// (скоуп — владелец/админ). Публичную запись менять нельзя.
func (s *Service) UpdatePermission(ctx context.Context, actor domain.Actor, id domain.CollaboratorID, level domain.PermissionLevel) (domain.CollaboratorInfo, error) {
	info, err := s.collaboratorForOwner(ctx, actor, id)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}
	if info.SharedTo.IsPublic() {
		return domain.CollaboratorInfo{}, domain.ErrPublicPermission
	}
	if !level.AtLeast(domain.PermissionViewOnly) {
		return domain.CollaboratorInfo{}, domain.ErrBadParams
	}
	updated, err := s.Shares.UpdatePermissionLevel(ctx, info.ID, level)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}
	s.Log.Printf("update permission ok collaborator=%s level=%s", info.ID, level)
	return updated, nil
}

// Remove удаляет одну запись шаринга в рамках прав актора.
// Возвращает удалённую запись: вызывающему важно, был ли грант публичным.
func (s *Service) Remove(ctx context.Context, actor domain.Actor, id domain.CollaboratorID) (domain.CollaboratorInfo, error) {
	info, err := s.collaboratorForOwner(ctx, actor, id)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}
	if err := s.Shares.DeleteCollaborator(ctx, info.ID); err != nil {
		return domain.CollaboratorInfo{}, err
	}
	s.Log.Printf("remove collaborator ok collaborator=%s", info.ID)
	return info, nil
}

// ResolvePermission — уровень доступа пользователя к диаграмме.
// Приоритет: персональный грант, затем публичный, иначе none.
// Админский обход обрабатывается уровнем выше (policy), не здесь.
func (s *Service) ResolvePermission(ctx context.Context, diagramID domain.DiagramID, user domain.UserID) (domain.PermissionLevel, error) {
	c, err := s.Shares.CollaboratorFor(ctx, diagramID, domain.TargetUser(user))
	if err == nil {
		return c.PermissionLevel, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.PermissionNone, err
	}

	c, err = s.Shares.CollaboratorFor(ctx, diagramID, domain.TargetPublic())
	if err == nil {
		return c.PermissionLevel, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.PermissionNone, err
	}
	return domain.PermissionNone, nil
}
