package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

// ClientInput is the full set of writable client fields. Update replaces all of them.
type ClientInput struct {
	Name    string
	Email   *string
	Phone   *string
	Company *string
	Notes   *string
}

// ClientService defines use-case operations for clients. Mutations take the
// acting user for the audit trail.
type ClientService interface {
	List(ctx context.Context, f ListFilter) ([]domain.Client, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Client, error)
	Create(ctx context.Context, actor *domain.User, in ClientInput) (*domain.Client, error)
	Update(ctx context.Context, actor *domain.User, id int64, in ClientInput) (*domain.Client, error)
	Archive(ctx context.Context, actor *domain.User, id int64) error
	Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Client, error)
}
