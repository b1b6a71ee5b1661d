package ports

import (
	"context"

	"github.com/clientops/hub/internal/core/domain"
)

// AuditRepository is the append-only audit trail. Insert assigns ID.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	// List returns entries newest first. limit 0 means no limit.
	List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error)
}
