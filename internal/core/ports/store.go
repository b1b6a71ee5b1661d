package ports

import (
	"context"
	"time"

	"github.com/clientops/hub/internal/core/domain"
)

// ListFilter carries the query parameters shared by every entity list.
type ListFilter struct {
	Query           string // case-insensitive substring match; clients only
	IncludeArchived bool
	Offset          int
	Limit           int // 0 = no limit
}

// Store is the transactional record store. Services reach every table through
// it so that multi-row operations can run inside WithTx.
type Store interface {
	Users() UserRepository
	Clients() ClientRepository
	Leads() LeadRepository
	Invoices() InvoiceRepository

	// WithTx runs fn against a transaction-scoped Store. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}

// ClientRepository persists clients. Get returns domain.ErrClientNotFound for
// a missing row, or an archived one unless includeArchived is set.
type ClientRepository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Client, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Client, error)
	// GetMany loads clients by id regardless of archive state.
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	// SoftDelete archives an active client; it reports false if nothing changed.
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
	// Restore clears deleted_at; it reports false if the client was not archived.
	Restore(ctx context.Context, id int64) (bool, error)
}

type LeadRepository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Lead, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Lead, error)
	Create(ctx context.Context, l *domain.Lead) error
	Update(ctx context.Context, l *domain.Lead) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
	Restore(ctx context.Context, id int64) (bool, error)
}

// InvoiceRepository persists invoices. Reads hydrate Invoice.Client. Without
// includeArchived, invoices whose client is archived are hidden as well.
type InvoiceRepository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Invoice, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Invoice, error)
	Create(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
	Restore(ctx context.Context, id int64) (bool, error)

	// SoftDeleteByClient archives every active invoice of a client.
	SoftDeleteByClient(ctx context.Context, clientID int64, at time.Time) (int64, error)
	// RestoreByClient un-archives every invoice of a client.
	RestoreByClient(ctx context.Context, clientID int64) (int64, error)
}
