package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

type ClientService struct {
	store  ports.Store
	trail  trail
	logger zerolog.Logger
	now    func() time.Time
}

func NewClientService(store ports.Store, audit ports.AuditService, logger zerolog.Logger) *ClientService {
	return &ClientService{
		store:  store,
		trail:  trail{audit: audit, logger: logger},
		logger: logger,
		now:    utcNow,
	}
}

var _ ports.ClientService = (*ClientService)(nil)

func (s *ClientService) List(ctx context.Context, f ports.ListFilter) ([]domain.Client, int64, error) {
	return s.store.Clients().List(ctx, f)
}

func (s *ClientService) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Client, error) {
	return s.store.Clients().Get(ctx, id, includeArchived)
}

func (s *ClientService) Create(ctx context.Context, actor *domain.User, in ports.ClientInput) (*domain.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}

	c := &domain.Client{CreatedAt: s.now()}
	applyClient(c, in)
	if err := s.store.Clients().Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("client_id", c.ID).Msg("client created")
	s.trail.record(ctx, domain.EntityClient, c.ID, domain.ActionCreate, actor, "Created client: "+c.Name)
	return c, nil
}

// Update replaces every writable field of an active client.
func (s *ClientService) Update(ctx context.Context, actor *domain.User, id int64, in ports.ClientInput) (*domain.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}

	c, err := s.store.Clients().Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	applyClient(c, in)
	if err := s.store.Clients().Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("client_id", c.ID).Msg("client updated")
	s.trail.record(ctx, domain.EntityClient, c.ID, domain.ActionUpdate, actor, "Updated client: "+c.Name)
	return c, nil
}

// Archive soft-deletes an active client together with its active invoices,
// all stamped with one timestamp in a single transaction. Invoices archived
// earlier keep their own timestamp.
func (s *ClientService) Archive(ctx context.Context, actor *domain.User, id int64) error {
	var (
		client   *domain.Client
		invoices int64
	)
	err := s.store.WithTx(ctx, func(tx ports.Store) error {
		c, err := tx.Clients().Get(ctx, id, false)
		if err != nil {
			return err
		}

		at := s.now()
		changed, err := tx.Clients().SoftDelete(ctx, id, at)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrClientNotFound
		}

		invoices, err = tx.Invoices().SoftDeleteByClient(ctx, id, at)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("client_id", id).Int64("invoices_archived", invoices).Msg("client archived")
	s.trail.record(ctx, domain.EntityClient, id, domain.ActionArchive, actor, "Archived client: "+client.Name)
	return nil
}

// Restore un-archives a client and every one of its invoices, including
// invoices that were archived on their own. The audit entry is written only
// when something changed.
func (s *ClientService) Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Client, error) {
	var (
		client  *domain.Client
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx ports.Store) error {
		c, err := tx.Clients().Get(ctx, id, true)
		if err != nil {
			return err
		}

		restored, err := tx.Clients().Restore(ctx, id)
		if err != nil {
			return err
		}
		invoices, err := tx.Invoices().RestoreByClient(ctx, id)
		if err != nil {
			return err
		}

		c.DeletedAt = nil
		client, changed = c, restored || invoices > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info().Int64("client_id", id).Msg("client restored")
		s.trail.record(ctx, domain.EntityClient, id, domain.ActionRestore, actor, "Restored client: "+client.Name)
	}
	return client, nil
}

func applyClient(c *domain.Client, in ports.ClientInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Company = in.Company
	c.Notes = in.Notes
}

func validateClient(in ports.ClientInput) error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if err := validateMax("phone", in.Phone, 50); err != nil {
		return err
	}
	return validateMax("company", in.Company, 200)
}

// validateName enforces the 2..200 character rule shared by names and titles.
func validateName(field, v string) error {
	n := utf8.RuneCountInString(v)
	if n < 2 {
		return domain.NewValidationError(field, "must be at least 2 characters")
	}
	if n > 200 {
		return domain.NewValidationError(field, "must be at most 200 characters")
	}
	return nil
}

func validateMax(field string, v *string, max int) error {
	if v != nil && utf8.RuneCountInString(*v) > max {
		return domain.NewValidationError(field, "is too long")
	}
	return nil
}
