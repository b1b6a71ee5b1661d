package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

type LeadService struct {
	store  ports.Store
	trail  trail
	logger zerolog.Logger
	now    func() time.Time
}

func NewLeadService(store ports.Store, audit ports.AuditService, logger zerolog.Logger) *LeadService {
	return &LeadService{
		store:  store,
		trail:  trail{audit: audit, logger: logger},
		logger: logger,
		now:    utcNow,
	}
}

var _ ports.LeadService = (*LeadService)(nil)

func (s *LeadService) List(ctx context.Context, f ports.ListFilter) ([]domain.Lead, int64, error) {
	return s.store.Leads().List(ctx, f)
}

func (s *LeadService) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Lead, error) {
	return s.store.Leads().Get(ctx, id, includeArchived)
}

func (s *LeadService) Create(ctx context.Context, actor *domain.User, in ports.LeadInput) (*domain.Lead, error) {
	in, err := normalizeLead(in)
	if err != nil {
		return nil, err
	}

	l := &domain.Lead{CreatedAt: s.now()}
	applyLead(l, in)
	if err := s.store.Leads().Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("lead_id", l.ID).Str("status", string(l.Status)).Msg("lead created")
	s.trail.record(ctx, domain.EntityLead, l.ID, domain.ActionCreate, actor, "Created lead: "+l.Name)
	return l, nil
}

// Update replaces every writable field of an active lead. A changed status is
// audited as status_change, anything else as update.
func (s *LeadService) Update(ctx context.Context, actor *domain.User, id int64, in ports.LeadInput) (*domain.Lead, error) {
	in, err := normalizeLead(in)
	if err != nil {
		return nil, err
	}

	l, err := s.store.Leads().Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	prev := l.Status
	applyLead(l, in)
	if err := s.store.Leads().Update(ctx, l); err != nil {
		return nil, err
	}

	action := domain.AuditActionForStatus(prev, l.Status)
	s.logger.Info().Int64("lead_id", l.ID).Str("action", action).Msg("lead updated")
	s.trail.record(ctx, domain.EntityLead, l.ID, action, actor,
		statusSummary("Lead", l.Name, action, string(prev), string(l.Status)))
	return l, nil
}

func (s *LeadService) Archive(ctx context.Context, actor *domain.User, id int64) error {
	l, err := s.store.Leads().Get(ctx, id, false)
	if err != nil {
		return err
	}
	changed, err := s.store.Leads().SoftDelete(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrLeadNotFound
	}

	s.logger.Info().Int64("lead_id", id).Msg("lead archived")
	s.trail.record(ctx, domain.EntityLead, id, domain.ActionArchive, actor, "Archived lead: "+l.Name)
	return nil
}

func (s *LeadService) Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Lead, error) {
	l, err := s.store.Leads().Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	changed, err := s.store.Leads().Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	l.DeletedAt = nil

	if changed {
		s.logger.Info().Int64("lead_id", id).Msg("lead restored")
		s.trail.record(ctx, domain.EntityLead, id, domain.ActionRestore, actor, "Restored lead: "+l.Name)
	}
	return l, nil
}

func applyLead(l *domain.Lead, in ports.LeadInput) {
	l.Name = in.Name
	l.Email = in.Email
	l.Source = in.Source
	l.Status = in.Status
	l.Notes = in.Notes
}

// normalizeLead defaults an empty status to new and validates the rest.
func normalizeLead(in ports.LeadInput) (ports.LeadInput, error) {
	if in.Status == "" {
		in.Status = domain.LeadNew
	}
	if !in.Status.Valid() {
		return in, domain.NewValidationError("status", "must be one of: new contacted qualified lost")
	}
	if err := validateName("name", in.Name); err != nil {
		return in, err
	}
	return in, validateMax("source", in.Source, 200)
}
