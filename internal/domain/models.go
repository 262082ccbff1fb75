package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type DiagramID = uuid.UUID
type CollaboratorID = uuid.UUID

// Роль пользователя. Определяет системные привилегии:
// админ обходит проверки владения, модератор пока эквивалентен
// обычному пользователю (оставлен под будущие права, как в исходном API).
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Пользователь
type User struct {
	ID        UserID    `json:"id"`
	Email     string    `json:"email"`
	PassHash  string    `json:"-"` // argon2id-строка, никогда не отдаём наружу
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Актор — аутентифицированная личность запроса (восстановлена из токена).
type Actor struct {
	ID    UserID
	Email string
	Role  Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Диаграмма: заголовок + произвольный JSON + метаданные.
// OwnerID nullable: при удалении владельца диаграмма остаётся (SET NULL).
type Diagram struct {
	ID          DiagramID       `json:"id"`
	Title       string          `json:"title"`
	JSON        json.RawMessage `json:"json"` // непрозрачный blob, структуру не трактуем
	Description string          `json:"description"`
	OwnerID     *UserID         `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OwnedBy — владение с учётом nullable owner_id.
func (d Diagram) OwnedBy(id UserID) bool {
	return d.OwnerID != nil && *d.OwnerID == id
}

// Параметры страницы для списков (limit/offset как в исходном API).
type Page struct {
	Limit  int
	Offset int
}

func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
