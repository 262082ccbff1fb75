package sharing

import (
	"context"
	"errors"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// Предикаты доступа. Чистые проверки (актор, ресурс, действие) -> да/нет,
// поверх ResolvePermission и прямых проверок владения/роли.
// CRUD-эндпойнты составляют из них свои требования.

// IsOwnerOrAdmin: admin ИЛИ владелец диаграммы.
func IsOwnerOrAdmin(actor domain.Actor, d domain.Diagram) bool {
	return actor.IsAdmin() || d.OwnedBy(actor.ID)
}

// IsCollaborator: у актора есть хоть какой-то доступ (персональный или публичный).
func (s *Service) IsCollaborator(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) (bool, error) {
	level, err := s.ResolvePermission(ctx, diagramID, actor.ID)
	if err != nil {
		return false, err
	}
	return level != domain.PermissionNone, nil
}

// HasViewCopyOrBetter: view-copy или view-edit — достаточно для копирования.
func (s *Service) HasViewCopyOrBetter(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) (bool, error) {
	level, err := s.ResolvePermission(ctx, diagramID, actor.ID)
	if err != nil {
		return false, err
	}
	return level.AtLeast(domain.PermissionViewCopy), nil
}

// HasViewEdit: ровно view-edit — требуется для сохранения изменений.
func (s *Service) HasViewEdit(ctx context.Context, actor domain.Actor, diagramID domain.DiagramID) (bool, error) {
	level, err := s.ResolvePermission(ctx, diagramID, actor.ID)
	if err != nil {
		return false, err
	}
	return level.AtLeast(domain.PermissionViewEdit), nil
}

// IsPublic: существует публичный шаринг диаграммы.
func (s *Service) IsPublic(ctx context.Context, diagramID domain.DiagramID) (bool, error) {
	_, err := s.Shares.CollaboratorFor(ctx, diagramID, domain.TargetPublic())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}
