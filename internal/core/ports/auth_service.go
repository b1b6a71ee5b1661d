package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

type AuthService interface {
	// Register provisions a user. There is no self-registration route; seeding uses it.
	Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Identify verifies a bearer token and resolves the user it names.
	Identify(ctx context.Context, token string) (*domain.User, error)
}
