package domain

import "time"

// Audited entity types.
const (
	EntityClient  = "client"
	EntityLead    = "lead"
	EntityInvoice = "invoice"
)

// Audit actions.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionStatusChange = "status_change"
	ActionArchive      = "archive"
	ActionRestore      = "restore"
)

// AuditLog is an immutable record of one mutating action.
type AuditLog struct {
	ID          int64     `db:"id"`
	EntityType  string    `db:"entity_type"`
	EntityID    int64     `db:"entity_id"`
	Action      string    `db:"action"`
	ActorUserID int64     `db:"actor_user_id"`
	ActorRole   Role      `db:"actor_role"`
	Summary     *string   `db:"summary"`
	CreatedAt   time.Time `db:"created_at"`
}

// AuditActionForStatus picks the audit action for an update: status_change when
// the status moved, update otherwise.
func AuditActionForStatus[S ~string](prev, next S) string {
	if prev != next {
		return ActionStatusChange
	}
	return ActionUpdate
}
