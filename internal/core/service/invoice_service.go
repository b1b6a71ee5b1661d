package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

type InvoiceService struct {
	store  ports.Store
	trail  trail
	logger zerolog.Logger
	now    func() time.Time
}

func NewInvoiceService(store ports.Store, audit ports.AuditService, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		store:  store,
		trail:  trail{audit: audit, logger: logger},
		logger: logger,
		now:    utcNow,
	}
}

var _ ports.InvoiceService = (*InvoiceService)(nil)

func (s *InvoiceService) List(ctx context.Context, f ports.ListFilter) ([]domain.Invoice, int64, error) {
	return s.store.Invoices().List(ctx, f)
}

func (s *InvoiceService) Get(ctx context.Context, id int64, includeArchived bool) (*domain.Invoice, error) {
	return s.store.Invoices().Get(ctx, id, includeArchived)
}

// Create issues an invoice for an active client. paid_at is derived from the
// status: set to now for a paid invoice without one, cleared otherwise.
func (s *InvoiceService) Create(ctx context.Context, actor *domain.User, in ports.InvoiceInput) (*domain.Invoice, error) {
	in, err := normalizeInvoice(in)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{IssuedAt: s.now()}
	err = s.store.WithTx(ctx, func(tx ports.Store) error {
		client, err := tx.Clients().Get(ctx, in.ClientID, false)
		if err != nil {
			return err
		}
		applyInvoice(inv, in)
		inv.DerivePaidAt(inv.IssuedAt)
		if err := tx.Invoices().Create(ctx, inv); err != nil {
			return err
		}
		inv.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("invoice_id", inv.ID).Int64("client_id", inv.ClientID).Str("status", string(inv.Status)).Msg("invoice created")
	s.trail.record(ctx, domain.EntityInvoice, inv.ID, domain.ActionCreate, actor, "Created invoice: "+inv.Title)
	return inv, nil
}

// Update replaces the writable fields of a visible invoice. A nil PaidAt keeps
// the stored payment time before paid_at is derived again.
func (s *InvoiceService) Update(ctx context.Context, actor *domain.User, id int64, in ports.InvoiceInput) (*domain.Invoice, error) {
	in, err := normalizeInvoice(in)
	if err != nil {
		return nil, err
	}

	var (
		inv  *domain.Invoice
		prev domain.InvoiceStatus
	)
	err = s.store.WithTx(ctx, func(tx ports.Store) error {
		current, err := tx.Invoices().Get(ctx, id, false)
		if err != nil {
			return err
		}
		client, err := tx.Clients().Get(ctx, in.ClientID, false)
		if err != nil {
			return err
		}

		prev = current.Status
		applyInvoice(current, in)
		current.DerivePaidAt(s.now())
		if err := tx.Invoices().Update(ctx, current); err != nil {
			return err
		}
		current.Client = client
		inv = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := domain.AuditActionForStatus(prev, inv.Status)
	s.logger.Info().Int64("invoice_id", inv.ID).Str("action", action).Msg("invoice updated")
	s.trail.record(ctx, domain.EntityInvoice, inv.ID, action, actor,
		statusSummary("Invoice", inv.Title, action, string(prev), string(inv.Status)))
	return inv, nil
}

func (s *InvoiceService) Archive(ctx context.Context, actor *domain.User, id int64) error {
	inv, err := s.store.Invoices().Get(ctx, id, false)
	if err != nil {
		return err
	}
	changed, err := s.store.Invoices().SoftDelete(ctx, id, s.now())
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrInvoiceNotFound
	}

	s.logger.Info().Int64("invoice_id", id).Msg("invoice archived")
	s.trail.record(ctx, domain.EntityInvoice, id, domain.ActionArchive, actor, "Archived invoice: "+inv.Title)
	return nil
}

func (s *InvoiceService) Restore(ctx context.Context, actor *domain.User, id int64) (*domain.Invoice, error) {
	inv, err := s.store.Invoices().Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	changed, err := s.store.Invoices().Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.DeletedAt = nil

	if changed {
		s.logger.Info().Int64("invoice_id", id).Msg("invoice restored")
		s.trail.record(ctx, domain.EntityInvoice, id, domain.ActionRestore, actor, "Restored invoice: "+inv.Title)
	}
	return inv, nil
}

func applyInvoice(inv *domain.Invoice, in ports.InvoiceInput) {
	inv.ClientID = in.ClientID
	inv.Title = in.Title
	inv.Amount = in.Amount
	inv.Status = in.Status
	if in.PaidAt != nil {
		paidAt := in.PaidAt.UTC()
		inv.PaidAt = &paidAt
	}
}

// normalizeInvoice defaults an empty status to draft and validates the rest.
func normalizeInvoice(in ports.InvoiceInput) (ports.InvoiceInput, error) {
	if in.Status == "" {
		in.Status = domain.InvoiceDraft
	}
	if !in.Status.Valid() {
		return in, domain.NewValidationError("status", "must be one of: draft sent paid")
	}
	if in.ClientID <= 0 {
		return in, domain.NewValidationError("client_id", "is required")
	}
	if err := validateName("title", in.Title); err != nil {
		return in, err
	}
	if !(in.Amount > 0) {
		return in, domain.NewValidationError("amount", "must be greater than 0")
	}
	return in, nil
}
