package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const (
	invoiceColumns = "i.id, i.client_id, i.title, i.amount, i.status, i.issued_at, i.paid_at, i.deleted_at"
	invoiceFrom    = "invoices i JOIN clients c ON c.id = i.client_id"
	// An invoice is visible by default only while it and its client are active.
	invoiceVisible = "i.deleted_at IS NULL AND c.deleted_at IS NULL"
)

type invoiceRepo struct {
	q sqlx.ExtContext
}

func (r *invoiceRepo) List(ctx context.Context, f ports.ListFilter) ([]domain.Invoice, int64, error) {
	var where conditions
	if !f.IncludeArchived {
		where.add(invoiceVisible)
	}
	items, total, err := selectPage[domain.Invoice](ctx, r.q, invoiceColumns, invoiceFrom, where, "i.issued_at DESC, i.id DESC", f)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachClients(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *invoiceRepo) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM " + invoiceFrom + " WHERE i.id = ?"
	if !includeArchived {
		query += " AND " + invoiceVisible
	}
	var inv domain.Invoice
	if err := sqlx.GetContext(ctx, r.q, &inv, r.q.Rebind(query), id); err != nil {
		return nil, mapNotFound(err, domain.ErrInvoiceNotFound)
	}
	items := []domain.Invoice{inv}
	if err := r.attachClients(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachClients hydrates Invoice.Client with one query for the whole slice.
func (r *invoiceRepo) attachClients(ctx context.Context, items []domain.Invoice) error {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, inv := range items {
		if _, ok := seen[inv.ClientID]; ok {
			continue
		}
		seen[inv.ClientID] = struct{}{}
		ids = append(ids, inv.ClientID)
	}

	clients, err := (&clientRepo{q: r.q}).GetMany(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		if c, ok := clients[items[i].ClientID]; ok {
			items[i].Client = &c
		}
	}
	return nil
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	id, err := insertReturningID(ctx, r.q,
		"INSERT INTO invoices (client_id, title, amount, status, issued_at, paid_at) VALUES (?, ?, ?, ?, ?, ?)",
		inv.ClientID, inv.Title, inv.Amount, string(inv.Status), inv.IssuedAt, inv.PaidAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	inv.ID = id
	return nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	n, err := execAffected(ctx, r.q,
		"UPDATE invoices SET client_id = ?, title = ?, amount = ?, status = ?, paid_at = ? WHERE id = ?",
		inv.ClientID, inv.Title, inv.Amount, string(inv.Status), inv.PaidAt, inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice %d: %w", inv.ID, err)
	}
	if n == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	return softDelete(ctx, r.q, "invoices", id, at)
}

func (r *invoiceRepo) Restore(ctx context.Context, id int64) (bool, error) {
	return restore(ctx, r.q, "invoices", id)
}

func (r *invoiceRepo) SoftDeleteByClient(ctx context.Context, clientID int64, at time.Time) (int64, error) {
	n, err := execAffected(ctx, r.q,
		"UPDATE invoices SET deleted_at = ? WHERE client_id = ? AND deleted_at IS NULL", at, clientID)
	if err != nil {
		return 0, fmt.Errorf("archive invoices of client %d: %w", clientID, err)
	}
	return n, nil
}

func (r *invoiceRepo) RestoreByClient(ctx context.Context, clientID int64) (int64, error) {
	n, err := execAffected(ctx, r.q,
		"UPDATE invoices SET deleted_at = NULL WHERE client_id = ? AND deleted_at IS NOT NULL", clientID)
	if err != nil {
		return 0, fmt.Errorf("restore invoices of client %d: %w", clientID, err)
	}
	return n, nil
}
