package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

const diagramColumns = "id, title, json, description, owner_id, created_at, updated_at"

func scanDiagram(row interface{ Scan(...any) error }) (domain.Diagram, error) {
	var d domain.Diagram
	err := row.Scan(&d.ID, &d.Title, &d.JSON, &d.Description, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *PGRepo) CreateDiagram(ctx context.Context, d domain.Diagram) (domain.Diagram, error) {
	q := r.qb().Insert(r.table("diagrams")).
		Columns("title", "json", "description", "owner_id").
		Values(d.Title, []byte(d.JSON), d.Description, d.OwnerID).
		Suffix("RETURNING " + diagramColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateDiagram", sqlStr, args)

	start := time.Now()
	out, err := scanDiagram(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateDiagram scan error after %s: %v", time.Since(start), err)
		return domain.Diagram{}, err
	}
	r.logger.Printf("CreateDiagram ok in %s id=%s title=%q", time.Since(start), out.ID, out.Title)
	return out, nil
}

func (r *PGRepo) DiagramByID(ctx context.Context, id domain.DiagramID) (domain.Diagram, error) {
	q := r.qb().Select(diagramColumns).
		From(r.table("diagrams")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DiagramByID", sqlStr, args)

	start := time.Now()
	out, err := scanDiagram(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("DiagramByID scan error after %s: %v", time.Since(start), err)
		return domain.Diagram{}, notFound(err)
	}
	r.logger.Printf("DiagramByID ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

// UpdateDiagram переписывает контент и бампает updated_at (now() монотонен
// в рамках транзакции, исходная метка created_at не трогается).
func (r *PGRepo) UpdateDiagram(ctx context.Context, d domain.Diagram) (domain.Diagram, error) {
	q := r.qb().Update(r.table("diagrams")).
		SetMap(map[string]any{
			"title":       d.Title,
			"json":        []byte(d.JSON),
			"description": d.Description,
			"owner_id":    d.OwnerID,
			"updated_at":  sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": d.ID}).
		Suffix("RETURNING " + diagramColumns)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateDiagram", sqlStr, args)

	start := time.Now()
	out, err := scanDiagram(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("UpdateDiagram scan error after %s: %v", time.Since(start), err)
		return domain.Diagram{}, notFound(err)
	}
	r.logger.Printf("UpdateDiagram ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

// DeleteDiagram удаляет диаграмму; шаринги уходят каскадом (FK ON DELETE CASCADE).
func (r *PGRepo) DeleteDiagram(ctx context.Context, id domain.DiagramID) error {
	q := r.qb().Delete(r.table("diagrams")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteDiagram", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteDiagram exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("DeleteDiagram no rows affected in %s", time.Since(start))
		return domain.ErrNotFound
	}
	r.logger.Printf("DeleteDiagram ok in %s id=%s", time.Since(start), id)
	return nil
}

// DiagramsVisibleTo — скоуп по роли в одном месте: админ видит все диаграммы,
// остальные только свои. Каждая строка аннотирована признаком публичности.
func (r *PGRepo) DiagramsVisibleTo(ctx context.Context, actor domain.Actor, p domain.Page) ([]domain.DiagramListItem, error) {
	collabs := r.table("collaborators")
	sb := r.qb().Select(
		"d.id", "d.title", "d.json", "d.description", "d.owner_id", "d.created_at", "d.updated_at",
		"EXISTS (SELECT 1 FROM "+collabs+" c WHERE c.diagram_id = d.id AND c.shared_to IS NULL) AS is_public",
	).From(r.table("diagrams") + " d")

	if !actor.IsAdmin() {
		sb = sb.Where(sq.Eq{"d.owner_id": actor.ID})
	}

	sb = sb.OrderBy("d.updated_at DESC", "d.id ASC").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset))

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("DiagramsVisibleTo", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DiagramsVisibleTo query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.DiagramListItem
	for rows.Next() {
		var it domain.DiagramListItem
		if err := rows.Scan(
			&it.ID, &it.Title, &it.JSON, &it.Description, &it.OwnerID,
			&it.CreatedAt, &it.UpdatedAt, &it.IsPublic,
		); err != nil {
			r.logger.Printf("DiagramsVisibleTo scan error: %v", err)
			return nil, err
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("DiagramsVisibleTo rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("DiagramsVisibleTo ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// DiagramsSharedTo — диаграммы, расшаренные пользователю персонально,
// каждая аннотирована уровнем доступа гранта.
func (r *PGRepo) DiagramsSharedTo(ctx context.Context, user domain.UserID, p domain.Page) ([]domain.SharedDiagramItem, error) {
	sb := r.qb().Select(
		"d.id", "d.title", "d.json", "d.description", "d.owner_id", "d.created_at", "d.updated_at",
		"c.permission_level",
	).From(r.table("diagrams") + " d").
		Join(r.table("collaborators") + " c ON c.diagram_id = d.id").
		Where(sq.Eq{"c.shared_to": user}).
		OrderBy("d.updated_at DESC", "d.id ASC").
		Limit(uint64(p.Limit)).
		Offset(uint64(p.Offset))

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("DiagramsSharedTo", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DiagramsSharedTo query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.SharedDiagramItem
	for rows.Next() {
		var it domain.SharedDiagramItem
		if err := rows.Scan(
			&it.ID, &it.Title, &it.JSON, &it.Description, &it.OwnerID,
			&it.CreatedAt, &it.UpdatedAt, &it.PermissionLevel,
		); err != nil {
			r.logger.Printf("DiagramsSharedTo scan error: %v", err)
			return nil, err
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("DiagramsSharedTo rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("DiagramsSharedTo ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// PublicDiagramByID отдаёт диаграмму только при наличии публичного шаринга.
func (r *PGRepo) PublicDiagramByID(ctx context.Context, id domain.DiagramID) (domain.Diagram, error) {
	collabs := r.table("collaborators")
	sb := r.qb().Select(
		"d.id", "d.title", "d.json", "d.description", "d.owner_id", "d.created_at", "d.updated_at",
	).From(r.table("diagrams") + " d").
		Where(sq.Eq{"d.id": id}).
		Where("EXISTS (SELECT 1 FROM " + collabs + " c WHERE c.diagram_id = d.id AND c.shared_to IS NULL)")

	sqlStr, args, _ := sb.ToSql()
	r.logSQL("PublicDiagramByID", sqlStr, args)

	start := time.Now()
	out, err := scanDiagram(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("PublicDiagramByID scan error after %s: %v", time.Since(start), err)
		return domain.Diagram{}, notFound(err)
	}
	r.logger.Printf("PublicDiagramByID ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}
