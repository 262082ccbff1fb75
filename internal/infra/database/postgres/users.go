package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

const userColumns = "id, email, pass_hash, first_name, last_name, role, is_active, created_at"

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.FirstName, &u.LastName, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

func (r *PGRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	q := r.qb().Insert(r.table("users")).
		Columns("email", "pass_hash", "first_name", "last_name", "role", "is_active").
		Values(u.Email, u.PassHash, u.FirstName, u.LastName, u.Role, u.IsActive).
		Suffix("RETURNING " + userColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, userConflict(err)
	}
	r.logger.Printf("CreateUser ok in %s id=%s email=%s", time.Since(start), out.ID, out.Email)
	return out, nil
}

func (r *PGRepo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	q := r.qb().Select(userColumns).
		From(r.table("users")).
		Where(sq.Eq{"email": email})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByEmail", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UserByEmail scan error after %s: %v", time.Since(start), err)
		return domain.User{}, notFound(err)
	}
	r.logger.Printf("UserByEmail ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	q := r.qb().Select(userColumns).
		From(r.table("users")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByID", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UserByID scan error after %s: %v", time.Since(start), err)
		return domain.User{}, notFound(err)
	}
	r.logger.Printf("UserByID ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	q := r.qb().Update(r.table("users")).
		SetMap(map[string]any{
			"pass_hash":  u.PassHash,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"role":       u.Role,
			"is_active":  u.IsActive,
		}).
		Where(sq.Eq{"id": u.ID}).
		Suffix("RETURNING " + userColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateUser", sqlStr, args)

	start := time.Now()
	out, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UpdateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, notFound(err)
	}
	r.logger.Printf("UpdateUser ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}
