package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const clientColumns = "id, name, email, phone, company, notes, created_at, deleted_at"

type clientRepo struct {
	q sqlx.ExtContext
}

func (r *clientRepo) List(ctx context.Context, f ports.ListFilter) ([]domain.Client, int64, error) {
	var where conditions
	if !f.IncludeArchived {
		where.add("deleted_at IS NULL")
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		where.containsFold(r.q, term, "name", "COALESCE(company, '')")
	}
	return selectPage[domain.Client](ctx, r.q, clientColumns, "clients", where, "created_at DESC, id DESC", f)
}

func (r *clientRepo) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Client, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE id = ?"
	if !includeArchived {
		query += " AND deleted_at IS NULL"
	}
	var c domain.Client
	if err := sqlx.GetContext(ctx, r.q, &c, r.q.Rebind(query), id); err != nil {
		return nil, mapNotFound(err, domain.ErrClientNotFound)
	}
	return &c, nil
}

func (r *clientRepo) GetMany(ctx context.Context, ids []int64) (map[int64]domain.Client, error) {
	out := make(map[int64]domain.Client, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In("SELECT "+clientColumns+" FROM clients WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Client
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *clientRepo) Create(ctx context.Context, c *domain.Client) error {
	id, err := insertReturningID(ctx, r.q,
		"INSERT INTO clients (name, email, phone, company, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.Name, c.Email, c.Phone, c.Company, c.Notes, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	c.ID = id
	return nil
}

func (r *clientRepo) Update(ctx context.Context, c *domain.Client) error {
	n, err := execAffected(ctx, r.q,
		"UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, notes = ? WHERE id = ?",
		c.Name, c.Email, c.Phone, c.Company, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("update client %d: %w", c.ID, err)
	}
	if n == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.q, "clients", id, at)
}

func (r *clientRepo) Restore(ctx context.Context, id int64) (bool, error) {
	return restore(ctx, r.q, "clients", id)
}
