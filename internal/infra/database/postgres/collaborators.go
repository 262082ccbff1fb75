package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

// shared_to в БД — nullable uuid; в домене — ShareTarget.
func sharedToValue(t domain.ShareTarget) any {
	if id, ok := t.UserID(); ok {
		return id
	}
	return nil
}

func targetFromPtr(p *uuid.UUID) domain.ShareTarget {
	if p == nil {
		return domain.TargetPublic()
	}
	return domain.TargetUser(*p)
}

func scanCollaboratorInfo(row interface{ Scan(...any) error }) (domain.CollaboratorInfo, error) {
	var (
		out      domain.CollaboratorInfo
		sharedTo *uuid.UUID
	)
	err := row.Scan(&out.ID, &out.DiagramID, &sharedTo, &out.PermissionLevel, &out.SharedAt, &out.SharedToEmail)
	if err != nil {
		return domain.CollaboratorInfo{}, err
	}
	out.SharedTo = targetFromPtr(sharedTo)
	return out, nil
}

// infoColumns: запись шаринга + email адресата (пустой для публичной).
func (r *PGRepo) infoQuery() sq.SelectBuilder {
	return r.qb().Select(
		"c.id", "c.diagram_id", "c.shared_to", "c.permission_level", "c.shared_at",
		"COALESCE(u.email, '') AS shared_to_email",
	).From(r.table("collaborators") + " c").
		LeftJoin(r.table("users") + " u ON u.id = c.shared_to")
}

// CreateCollaborator — единственная точка вставки шаринга. Инварианты
// уникальности пары и «public => view-only» держит БД; нарушение
// транслируется в доменную ошибку, включая проигрыш гонки двойного
// share-set-public (у приложения нет check-then-act).
func (r *PGRepo) CreateCollaborator(ctx context.Context, c domain.Collaborator) (domain.Collaborator, error) {
	q := r.qb().Insert(r.table("collaborators")).
		Columns("diagram_id", "shared_to", "permission_level").
		Values(c.DiagramID, sharedToValue(c.SharedTo), c.PermissionLevel).
		Suffix("RETURNING id, diagram_id, shared_to, permission_level, shared_at")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateCollaborator", sqlStr, args)

	start := time.Now()
	var (
		out      domain.Collaborator
		sharedTo *uuid.UUID
	)
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	if err := row.Scan(&out.ID, &out.DiagramID, &sharedTo, &out.PermissionLevel, &out.SharedAt); err != nil {
		r.logger.Printf("CreateCollaborator scan error after %s: %v", time.Since(start), err)
		return domain.Collaborator{}, shareConflict(err, c)
	}
	out.SharedTo = targetFromPtr(sharedTo)
	r.logger.Printf("CreateCollaborator ok in %s id=%s diagram=%s", time.Since(start), out.ID, out.DiagramID)
	return out, nil
}

func (r *PGRepo) CollaboratorByID(ctx context.Context, id domain.CollaboratorID) (domain.CollaboratorInfo, error) {
	q := r.infoQuery().Where(sq.Eq{"c.id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CollaboratorByID", sqlStr, args)

	start := time.Now()
	out, err := scanCollaboratorInfo(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CollaboratorByID scan error after %s: %v", time.Since(start), err)
		return domain.CollaboratorInfo{}, notFound(err)
	}
	r.logger.Printf("CollaboratorByID ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) CollaboratorFor(ctx context.Context, diagram domain.DiagramID, target domain.ShareTarget) (domain.Collaborator, error) {
	sb := r.qb().Select("id", "diagram_id", "shared_to", "permission_level", "shared_at").
		From(r.table("collaborators")).
		Where(sq.Eq{"diagram_id": diagram})
	if id, ok := target.UserID(); ok {
		sb = sb.Where(sq.Eq{"shared_to": id})
	} else {
		sb = sb.Where("shared_to IS NULL")
	}

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("CollaboratorFor", sqlStr, args)

	start := time.Now()
	var (
		out      domain.Collaborator
		sharedTo *uuid.UUID
	)
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	if err := row.Scan(&out.ID, &out.DiagramID, &sharedTo, &out.PermissionLevel, &out.SharedAt); err != nil {
		return domain.Collaborator{}, notFound(err)
	}
	out.SharedTo = targetFromPtr(sharedTo)
	r.logger.Printf("CollaboratorFor ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

// CollaboratorsScoped — скоуп по роли в одном месте: админ видит все записи
// шаринга, остальные — записи своих диаграмм.
func (r *PGRepo) CollaboratorsScoped(ctx context.Context, actor domain.Actor, p domain.Page) ([]domain.CollaboratorInfo, error) {
	sb := r.infoQuery()
	if !actor.IsAdmin() {
		sb = sb.Join(r.table("diagrams") + " d ON d.id = c.diagram_id").
			Where(sq.Eq{"d.owner_id": actor.ID})
	}
	sb = sb.OrderBy("c.shared_at DESC", "c.id ASC").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset))

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("CollaboratorsScoped", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("CollaboratorsScoped query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.CollaboratorInfo
	for rows.Next() {
		info, err := scanCollaboratorInfo(rows)
		if err != nil {
			r.logger.Printf("CollaboratorsScoped scan error: %v", err)
			return nil, err
		}
		res = append(res, info)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("CollaboratorsScoped rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("CollaboratorsScoped ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// UpdatePermissionLevel меняет только уровень; shared_at неизменен.
func (r *PGRepo) UpdatePermissionLevel(ctx context.Context, id domain.CollaboratorID, level domain.PermissionLevel) (domain.CollaboratorInfo, error) {
	q := r.qb().Update(r.table("collaborators")).
		Set("permission_level", level).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdatePermissionLevel", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UpdatePermissionLevel exec error after %s: %v", time.Since(start), err)
		return domain.CollaboratorInfo{}, shareConflict(err, domain.Collaborator{SharedTo: domain.TargetPublic()})
	}
	if tag.RowsAffected() == 0 {
		return domain.CollaboratorInfo{}, domain.ErrNotFound
	}
	r.logger.Printf("UpdatePermissionLevel ok in %s id=%s level=%s", time.Since(start), id, level)
	return r.CollaboratorByID(ctx, id)
}

func (r *PGRepo) DeleteCollaborator(ctx context.Context, id domain.CollaboratorID) error {
	q := r.qb().Delete(r.table("collaborators")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteCollaborator", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteCollaborator exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("DeleteCollaborator ok in %s id=%s", time.Since(start), id)
	return nil
}

// DeleteAllForDiagram — массовое снятие шарингов одной командой (атомарно).
// Отсутствие строк — не ошибка.
func (r *PGRepo) DeleteAllForDiagram(ctx context.Context, diagram domain.DiagramID) error {
	q := r.qb().Delete(r.table("collaborators")).
		Where(sq.Eq{"diagram_id": diagram})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteAllForDiagram", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteAllForDiagram exec error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("DeleteAllForDiagram ok in %s diagram=%s rows=%d", time.Since(start), diagram, tag.RowsAffected())
	return nil
}

// DeletePublicShare — снять публичность. Идемпотентно.
func (r *PGRepo) DeletePublicShare(ctx context.Context, diagram domain.DiagramID) error {
	q := r.qb().Delete(r.table("collaborators")).
		Where(sq.Eq{"diagram_id": diagram}).
		Where("shared_to IS NULL")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeletePublicShare", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeletePublicShare exec error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("DeletePublicShare ok in %s diagram=%s rows=%d", time.Since(start), diagram, tag.RowsAffected())
	return nil
}

// DeleteForRecipient — отписка адресата; ErrNotFound, если гранта не было.
func (r *PGRepo) DeleteForRecipient(ctx context.Context, diagram domain.DiagramID, user domain.UserID) error {
	q := r.qb().Delete(r.table("collaborators")).
		Where(sq.Eq{"diagram_id": diagram, "shared_to": user})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteForRecipient", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteForRecipient exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("DeleteForRecipient ok in %s diagram=%s user=%s", time.Since(start), diagram, user)
	return nil
}
