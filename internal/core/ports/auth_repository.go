package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

// UserRepository defines persistence for provisioned users.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts u and fills in its ID. A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, u *domain.User) error
	Count(ctx context.Context) (int64, error)
}

// UserCache holds identities resolved from token subjects. Get returns
// (nil, nil) on a miss.
type UserCache interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	Set(ctx context.Context, u *domain.User) error
}
