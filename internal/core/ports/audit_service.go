package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

// AuditEntry describes one mutating action to record.
type AuditEntry struct {
	EntityType string
	EntityID   int64
	Action     string
	Actor      *domain.User
	Summary    string
}

type AuditService interface {
	Record(ctx context.Context, entry AuditEntry) (*domain.AuditLog, error)
	List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error)
}
