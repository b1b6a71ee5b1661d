package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
	"github.com/clientops/hub/internal/pkg/metrics"
)

type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger, now: utcNow}
}

var _ ports.AuditService = (*AuditService)(nil)

// Record appends one entry. The id and timestamp are assigned here.
func (s *AuditService) Record(ctx context.Context, in ports.AuditEntry) (*domain.AuditLog, error) {
	if in.Actor == nil {
		return nil, fmt.Errorf("record audit: %w", domain.NewValidationError("actor", "is required"))
	}

	entry := &domain.AuditLog{
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Action:      in.Action,
		ActorUserID: in.Actor.ID,
		ActorRole:   in.Actor.Role,
		CreatedAt:   s.now(),
	}
	if in.Summary != "" {
		summary := in.Summary
		entry.Summary = &summary
	}

	start := time.Now()
	err := s.repo.Insert(ctx, entry)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditWritesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("record audit: %w", err)
	}
	metrics.AuditWritesTotal.WithLabelValues("ok").Inc()
	return entry, nil
}

// List returns entries newest first. limit 0 returns all of them.
func (s *AuditService) List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

// trail records audit entries on behalf of the entity services. A write that
// fails after the mutation has committed is logged and never returned.
type trail struct {
	audit  ports.AuditService
	logger zerolog.Logger
}

func (t trail) record(ctx context.Context, entityType string, entityID int64, action string, actor *domain.User, summary string) {
	metrics.EntityMutationsTotal.WithLabelValues(entityType, action).Inc()

	_, err := t.audit.Record(ctx, ports.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		Summary:    summary,
	})
	if err != nil {
		t.logger.Warn().Err(err).
			Str("entity_type", entityType).
			Int64("entity_id", entityID).
			Str("action", action).
			Msg("audit write failed")
	}
}

// statusSummary renders the summary of an update. A status change reads
// "<Entity> status: <label> <prev> → <next>".
func statusSummary(entity, label, action, prev, next string) string {
	if action == domain.ActionStatusChange {
		return fmt.Sprintf("%s status: %s %s → %s", entity, label, prev, next)
	}
	return fmt.Sprintf("Updated %s: %s", strings.ToLower(entity), label)
}
