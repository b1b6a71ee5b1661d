package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/clientops/hub/internal/core/domain"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

var (
	adminUser = &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	staffUser = &domain.User{ID: 2, Username: "staff", Role: domain.RoleStaff}
)

// clock is a settable time source shared by every service of a fixture.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

type fixture struct {
	store    *memStore
	audit    *memAudit
	clock    *clock
	clients  *ClientService
	leads    *LeadService
	invoices *InvoiceService
}

func newFixture() *fixture {
	store := newMemStore()
	audit := &memAudit{}
	clk := &clock{now: t0}

	auditSvc := NewAuditService(audit, zerolog.Nop())
	auditSvc.now = clk.Now

	f := &fixture{
		store:    store,
		audit:    audit,
		clock:    clk,
		clients:  NewClientService(store, auditSvc, zerolog.Nop()),
		leads:    NewLeadService(store, auditSvc, zerolog.Nop()),
		invoices: NewInvoiceService(store, auditSvc, zerolog.Nop()),
	}
	f.clients.now = clk.Now
	f.leads.now = clk.Now
	f.invoices.now = clk.Now
	return f
}

func strp(s string) *string { return &s }
