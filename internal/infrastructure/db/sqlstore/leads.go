package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const leadColumns = "id, name, email, source, status, notes, created_at, deleted_at"

type leadRepo struct {
	q sqlx.ExtContext
}

func (r *leadRepo) List(ctx context.Context, f ports.ListFilter) ([]domain.Lead, int64, error) {
	var where conditions
	if !f.IncludeArchived {
		where.add("deleted_at IS NULL")
	}
	return selectPage[domain.Lead](ctx, r.q, leadColumns, "leads", where, "created_at DESC, id DESC", f)
}

func (r *leadRepo) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Lead, error) {
	query := "SELECT " + leadColumns + " FROM leads WHERE id = ?"
	if !includeArchived {
		query += " AND deleted_at IS NULL"
	}
	var l domain.Lead
	if err := sqlx.GetContext(ctx, r.q, &l, r.q.Rebind(query), id); err != nil {
		return nil, mapNotFound(err, domain.ErrLeadNotFound)
	}
	return &l, nil
}

func (r *leadRepo) Create(ctx context.Context, l *domain.Lead) error {
	id, err := insertReturningID(ctx, r.q,
		"INSERT INTO leads (name, email, source, status, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		l.Name, l.Email, l.Source, string(l.Status), l.Notes, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	l.ID = id
	return nil
}

func (r *leadRepo) Update(ctx context.Context, l *domain.Lead) error {
	n, err := execAffected(ctx, r.q,
		"UPDATE leads SET name = ?, email = ?, source = ?, status = ?, notes = ? WHERE id = ?",
		l.Name, l.Email, l.Source, string(l.Status), l.Notes, l.ID)
	if err != nil {
		return fmt.Errorf("update lead %d: %w", l.ID, err)
	}
	if n == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *leadRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.q, "leads", id, at)
}

func (r *leadRepo) Restore(ctx context.Context, id int64) (bool, error) {
	return restore(ctx, r.q, "leads", id)
}
