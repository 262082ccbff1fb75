package domain

import (
	"time"
)

// Уровень доступа к расшаренной диаграмме. Уровни упорядочены:
// none < view-only < view-copy < view-edit.
type PermissionLevel string

const (
	PermissionNone     PermissionLevel = ""
	PermissionViewOnly PermissionLevel = "view-only"
	PermissionViewCopy PermissionLevel = "view-copy"
	PermissionViewEdit PermissionLevel = "view-edit"
)

func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch PermissionLevel(s) {
	case PermissionViewOnly, PermissionViewCopy, PermissionViewEdit:
		return PermissionLevel(s), nil
	}
	return PermissionNone, ErrBadParams
}

func (p PermissionLevel) rank() int {
	switch p {
	case PermissionViewOnly:
		return 1
	case PermissionViewCopy:
		return 2
	case PermissionViewEdit:
		return 3
	}
	return 0
}

// AtLeast — сравнение уровней по возрастанию возможностей.
func (p PermissionLevel) AtLeast(min PermissionLevel) bool {
	return p.rank() >= min.rank()
}

// Адресат шаринга: конкретный пользователь либо «все» (публичная диаграмма).
// В БД публичность хранится как shared_to = NULL; в домене — явный вариант,
// чтобы правило «public => view-only» нельзя было обойти конструктором.
type ShareTarget struct {
	user *UserID
}

func TargetUser(id UserID) ShareTarget { return ShareTarget{user: &id} }
func TargetPublic() ShareTarget        { return ShareTarget{} }

func (t ShareTarget) IsPublic() bool { return t.user == nil }

// UserID возвращает адресата, ok=false для публичного шаринга.
func (t ShareTarget) UserID() (UserID, bool) {
	if t.user == nil {
		return UserID{}, false
	}
	return *t.user, true
}

// Запись о шаринге: связывает диаграмму с адресатом на уровне доступа.
// Инварианты (закреплены и ограничениями в БД):
//   - не более одной записи на пару (diagram, target), включая публичную;
//   - публичная запись всегда view-only;
//   - адресат не равен владельцу диаграммы.
type Collaborator struct {
	ID              CollaboratorID  `json:"id"`
	DiagramID       DiagramID       `json:"diagram_id"`
	SharedTo        ShareTarget     `json:"-"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	SharedAt        time.Time       `json:"shared_at"` // выставляется сервером, далее неизменно
}

// NewCollaborator собирает валидную запись: для публичного адресата уровень
// принудительно view-only (отдельная, более узкая точка входа, чем инвайт).
func NewCollaborator(diagram DiagramID, target ShareTarget, level PermissionLevel) (Collaborator, error) {
	if target.IsPublic() {
		level = PermissionViewOnly
	} else if !level.AtLeast(PermissionViewOnly) {
		return Collaborator{}, ErrBadParams
	}
	return Collaborator{
		DiagramID:       diagram,
		SharedTo:        target,
		PermissionLevel: level,
	}, nil
}
