package ports

import (
	"context"
	"time"

	"github.com/clientops/hub/internal/core/domain"
)

// InvoiceInput is the full set of writable invoice fields. An empty Status
// means draft. A nil PaidAt keeps the stored payment time on update.
type InvoiceInput struct {
	ClientID int64
	Title    string
	Amount   float64
	Status   domain.InvoiceStatus
	PaidAt   *time.Time
}

type InvoiceService interface {
	List(ctx context.Context, f ListFilter) ([]domain.Invoice, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Invoice, error)
	Create(ctx context.Context, actor *domain.User, in InvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, actor *domain.User, id int64, in InvoiceInput) (*domain.Invoice, error)
	Archive(ctx context.Context, actor *domain.User, id int64) error
	Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Invoice, error)
}
