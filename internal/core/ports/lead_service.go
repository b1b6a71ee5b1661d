package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

// LeadInput is the full set of writable lead fields. An empty Status means new.
type LeadInput struct {
	Name   string
	Email  *string
	Source *string
	Status domain.LeadStatus
	Notes  *string
}

type LeadService interface {
	List(ctx context.Context, f ListFilter) ([]domain.Lead, int64, error)
	Get(ctx context.Context, id int64, includeArchived bool) (*domain.Lead, error)
	Create(ctx context.Context, actor *domain.User, in LeadInput) (*domain.Lead, error)
	Update(ctx context.Context, actor *domain.User, id int64, in LeadInput) (*domain.Lead, error)
	Archive(ctx context.Context, actor *domain.User, id int64) error
	Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Lead, error)
}
