package domain

import (
	"context"
)

// Элемент списка «мои диаграммы»: аннотирован признаком публичности,
// чтобы фронту не делать лишний запрос перед share-set-public.
type DiagramListItem struct {
	Diagram
	IsPublic bool `json:"is_public"`
}

// Элемент списка «расшарено мне»: аннотирован уровнем доступа гранта.
type SharedDiagramItem struct {
	Diagram
	PermissionLevel PermissionLevel `json:"permission_level"`
}

// Запись шаринга вместе с email адресата (пустой для публичной).
type CollaboratorInfo struct {
	Collaborator
	SharedToEmail string `json:"shared_to"`
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, u User) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
}

type DiagramsRepo interface {
	CreateDiagram(ctx context.Context, d Diagram) (Diagram, error)
	DiagramByID(ctx context.Context, id DiagramID) (Diagram, error)
	// UpdateDiagram переписывает title/json/description/owner и бампает updated_at.
	UpdateDiagram(ctx context.Context, d Diagram) (Diagram, error)
	DeleteDiagram(ctx context.Context, id DiagramID) error

	// Списки уже ограничены правами актора: админ видит всё, остальные — своё.
	// Единственное место с ветвлением по роли, чтобы admin-bypass
	// не расползался по запросам.
	DiagramsVisibleTo(ctx context.Context, actor Actor, p Page) ([]DiagramListItem, error)
	DiagramsSharedTo(ctx context.Context, user UserID, p Page) ([]SharedDiagramItem, error)
	// PublicDiagramByID возвращает диаграмму только при наличии публичного шаринга.
	PublicDiagramByID(ctx context.Context, id DiagramID) (Diagram, error)
}

type SharingRepo interface {
	// CreateCollaborator транслирует нарушения ограничений БД
	// (уникальность пары, CHECK публичного уровня) в доменные ошибки.
	CreateCollaborator(ctx context.Context, c Collaborator) (Collaborator, error)
	CollaboratorByID(ctx context.Context, id CollaboratorID) (CollaboratorInfo, error)
	CollaboratorFor(ctx context.Context, diagram DiagramID, target ShareTarget) (Collaborator, error)
	CollaboratorsScoped(ctx context.Context, actor Actor, p Page) ([]CollaboratorInfo, error)

	UpdatePermissionLevel(ctx context.Context, id CollaboratorID, level PermissionLevel) (CollaboratorInfo, error)

	DeleteCollaborator(ctx context.Context, id CollaboratorID) error
	// Идемпотентно: отсутствие строк — не ошибка.
	DeleteAllForDiagram(ctx context.Context, diagram DiagramID) error
	DeletePublicShare(ctx context.Context, diagram DiagramID) error
	// DeleteForRecipient возвращает ErrNotFound, если грант отсутствует.
	DeleteForRecipient(ctx context.Context, diagram DiagramID, user UserID) error
}
