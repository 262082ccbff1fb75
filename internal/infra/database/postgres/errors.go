package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// Коды ошибок Postgres, которые транслируем в доменные.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// notFound: pgx.ErrNoRows -> доменный ErrNotFound, остальное как есть.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// shareConflict транслирует нарушения ограничений таблицы collaborators.
// Уникальная пара (diagram, shared_to) — включая NULL-пару — ловит гонку
// двойного share-set-public на стороне БД: проигравший получает ошибку
// валидации, а не противоречивое состояние.
func shareConflict(err error, c domain.Collaborator) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if c.SharedTo.IsPublic() {
			return domain.ErrAlreadyPublic
		}
		return domain.ErrDuplicateShare
	case pgCheckViolation:
		return domain.ErrPublicPermission
	}
	return err
}

// userConflict: уникальность email -> ошибка валидации формы.
func userConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrBadParams
	}
	return err
}
