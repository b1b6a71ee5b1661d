package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const auditColumns = "id, entity_type, entity_id, action, actor_user_id, actor_role, summary, created_at"

type auditRepo struct {
	q sqlx.ExtContext
}

var _ ports.AuditRepository = (*auditRepo)(nil)

func (r *auditRepo) Insert(ctx context.Context, e *domain.AuditLog) error {
	id, err := insertReturningID(ctx, r.q,
		"INSERT INTO audit_logs (entity_type, entity_id, action, actor_user_id, actor_role, summary, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.EntityType, e.EntityID, e.Action, e.ActorUserID, string(e.ActorRole), e.Summary, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	e.ID = id
	return nil
}

func (r *auditRepo) List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
	return selectPage[domain.AuditLog](ctx, r.q, auditColumns, "audit_logs", conditions{}, "created_at DESC, id DESC",
		ports.ListFilter{Offset: offset, Limit: limit})
}
