package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

// Seeder fills an empty database with the demo accounts and records. Each
// table is seeded only when it has no rows, archived ones included.
type Seeder struct {
	store  ports.Store
	auth   ports.AuthService
	logger zerolog.Logger
	now    func() time.Time
}

func NewSeeder(store ports.Store, auth ports.AuthService, logger zerolog.Logger) *Seeder {
	return &Seeder{store: store, auth: auth, logger: logger, now: utcNow}
}

type seedUser struct {
	username, password string
	role               domain.Role
}

var seedUsers = []seedUser{
	{"admin", "admin123", domain.RoleAdmin},
	{"staff", "staff123", domain.RoleStaff},
}

func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	err := s.store.WithTx(ctx, func(tx ports.Store) error {
		return s.seedRecords(ctx, tx)
	})
	if err != nil {
		return fmt.Errorf("seed records: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	n, err := s.store.Users().Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for _, u := range seedUsers {
		if _, err := s.auth.Register(ctx, u.username, u.password, u.role); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedRecords(ctx context.Context, tx ports.Store) error {
	all := ports.ListFilter{IncludeArchived: true}
	now := s.now()

	clients, clientCount, err := tx.Clients().List(ctx, all)
	if err != nil {
		return err
	}
	if clientCount == 0 {
		acme := &domain.Client{
			Name:      "Amina El-Sayed",
			Email:     strPtr("amina@acme-consulting.com"),
			Phone:     strPtr("+20 100 000 0000"),
			Company:   strPtr("ACME Consulting"),
			Notes:     strPtr("Retainer client (monthly ops support)."),
			CreatedAt: now,
		}
		northwind := &domain.Client{
			Name:      "Omar Hassan",
			Email:     strPtr("omar@northwind-trading.com"),
			Phone:     strPtr("+20 111 111 1111"),
			Company:   strPtr("Northwind Trading"),
			Notes:     strPtr("Prefers email for approvals."),
			CreatedAt: now,
		}
		for _, c := range []*domain.Client{acme, northwind} {
			if err := tx.Clients().Create(ctx, c); err != nil {
				return err
			}
		}
		clients = []domain.Client{*acme, *northwind}

		if err := s.seedInvoice(ctx, tx, acme.ID, "Operations Retainer - January", 850, domain.InvoicePaid, now); err != nil {
			return err
		}
		if err := s.seedInvoice(ctx, tx, northwind.ID, "Lead Gen Campaign Setup", 450, domain.InvoiceSent, now); err != nil {
			return err
		}
		s.logger.Info().Int("clients", 2).Msg("seeded demo clients")
	}

	_, leadCount, err := tx.Leads().List(ctx, all)
	if err != nil {
		return err
	}
	if leadCount == 0 {
		leads := []*domain.Lead{
			{
				Name:      "Sara Ahmed",
				Email:     strPtr("sara@brightlabs.io"),
				Source:    strPtr("Referral"),
				Status:    domain.LeadContacted,
				Notes:     strPtr("Asked for a proposal and timeline."),
				CreatedAt: now,
			},
			{
				Name:      "Mahmoud Adel",
				Email:     strPtr("mahmoud@shopzen.com"),
				Source:    strPtr("Website form"),
				Status:    domain.LeadNew,
				Notes:     strPtr("Interested in invoicing + client follow-ups."),
				CreatedAt: now,
			},
		}
		for _, l := range leads {
			if err := tx.Leads().Create(ctx, l); err != nil {
				return err
			}
		}
		s.logger.Info().Int("leads", len(leads)).Msg("seeded demo leads")
	}

	// at least one paid invoice, so revenue figures are never empty
	_, invoiceCount, err := tx.Invoices().List(ctx, all)
	if err != nil {
		return err
	}
	if invoiceCount == 0 && len(clients) > 0 {
		first := clients[0]
		for _, c := range clients[1:] {
			if c.ID < first.ID {
				first = c
			}
		}
		return s.seedInvoice(ctx, tx, first.ID, "Initial Setup", 250, domain.InvoicePaid, now)
	}
	return nil
}

func (s *Seeder) seedInvoice(ctx context.Context, tx ports.Store, clientID int64, title string, amount float64, status domain.InvoiceStatus, now time.Time) error {
	inv := &domain.Invoice{ClientID: clientID, Title: title, Amount: amount, Status: status, IssuedAt: now}
	inv.DerivePaidAt(now)
	return tx.Invoices().Create(ctx, inv)
}

func strPtr(s string) *string { return &s }
