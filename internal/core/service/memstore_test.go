package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

// memStore is an in-memory ports.Store. WithTx snapshots every table and
// puts the snapshot back when fn fails.
type memStore struct {
	users    map[string]domain.User
	clients  map[int64]domain.Client
	leads    map[int64]domain.Lead
	invoices map[int64]domain.Invoice
	nextID   int64

	// failInvoiceCascade makes SoftDeleteByClient fail.
	failInvoiceCascade error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		clients:  make(map[int64]domain.Client),
		leads:    make(map[int64]domain.Lead),
		invoices: make(map[int64]domain.Invoice),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Users() ports.UserRepository       { return memUsers{s} }
func (s *memStore) Clients() ports.ClientRepository   { return memClients{s} }
func (s *memStore) Leads() ports.LeadRepository       { return memLeads{s} }
func (s *memStore) Invoices() ports.InvoiceRepository { return memInvoices{s} }
func (s *memStore) Ping(context.Context) error        { return nil }

func (s *memStore) WithTx(_ context.Context, fn func(tx ports.Store) error) error {
	users, clients, leads, invoices, next := cloneMap(s.users), cloneMap(s.clients), cloneMap(s.leads), cloneMap(s.invoices), s.nextID
	if err := fn(s); err != nil {
		s.users, s.clients, s.leads, s.invoices, s.nextID = users, clients, leads, invoices, next
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func page[T any](items []T, f ports.ListFilter) ([]T, int64) {
	total := int64(len(items))
	if f.Limit <= 0 {
		return items, total
	}
	if f.Offset >= len(items) {
		return []T{}, total
	}
	end := f.Offset + f.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[f.Offset:end], total
}

func timePtr(t time.Time) *time.Time { return &t }

type memUsers struct{ s *memStore }

func (r memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	if _, ok := r.s.users[u.Username]; ok {
		return domain.ErrUserExists
	}
	u.ID = r.s.id()
	r.s.users[u.Username] = *u
	return nil
}

func (r memUsers) Count(context.Context) (int64, error) { return int64(len(r.s.users)), nil }

type memClients struct{ s *memStore }

func (r memClients) List(_ context.Context, f ports.ListFilter) ([]domain.Client, int64, error) {
	term := strings.ToLower(strings.TrimSpace(f.Query))
	var out []domain.Client
	for _, c := range r.s.clients {
		if c.DeletedAt != nil && !f.IncludeArchived {
			continue
		}
		if term != "" {
			company := ""
			if c.Company != nil {
				company = *c.Company
			}
			if !strings.Contains(strings.ToLower(c.Name), term) && !strings.Contains(strings.ToLower(company), term) {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	items, total := page(out, f)
	return items, total, nil
}

func (r memClients) Get(_ context.Context, id int64, includeArchived bool) (*domain.Client, error) {
	c, ok := r.s.clients[id]
	if !ok || (c.DeletedAt != nil && !includeArchived) {
		return nil, domain.ErrClientNotFound
	}
	return &c, nil
}

func (r memClients) GetMany(_ context.Context, ids []int64) (map[int64]domain.Client, error) {
	out := make(map[int64]domain.Client)
	for _, id := range ids {
		if c, ok := r.s.clients[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r memClients) Create(_ context.Context, c *domain.Client) error {
	c.ID = r.s.id()
	r.s.clients[c.ID] = *c
	return nil
}

func (r memClients) Update(_ context.Context, c *domain.Client) error {
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrClientNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r memClients) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	c, ok := r.s.clients[id]
	if !ok || c.DeletedAt != nil {
		return false, nil
	}
	c.DeletedAt = timePtr(at)
	r.s.clients[id] = c
	return true, nil
}

func (r memClients) Restore(_ context.Context, id int64) (bool, error) {
	c, ok := r.s.clients[id]
	if !ok || c.DeletedAt == nil {
		return false, nil
	}
	c.DeletedAt = nil
	r.s.clients[id] = c
	return true, nil
}

type memLeads struct{ s *memStore }

func (r memLeads) List(_ context.Context, f ports.ListFilter) ([]domain.Lead, int64, error) {
	var out []domain.Lead
	for _, l := range r.s.leads {
		if l.DeletedAt != nil && !f.IncludeArchived {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	items, total := page(out, f)
	return items, total, nil
}

func (r memLeads) Get(_ context.Context, id int64, includeArchived bool) (*domain.Lead, error) {
	l, ok := r.s.leads[id]
	if !ok || (l.DeletedAt != nil && !includeArchived) {
		return nil, domain.ErrLeadNotFound
	}
	return &l, nil
}

func (r memLeads) Create(_ context.Context, l *domain.Lead) error {
	l.ID = r.s.id()
	r.s.leads[l.ID] = *l
	return nil
}

func (r memLeads) Update(_ context.Context, l *domain.Lead) error {
	if _, ok := r.s.leads[l.ID]; !ok {
		return domain.ErrLeadNotFound
	}
	r.s.leads[l.ID] = *l
	return nil
}

func (r memLeads) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	l, ok := r.s.leads[id]
	if !ok || l.DeletedAt != nil {
		return false, nil
	}
	l.DeletedAt = timePtr(at)
	r.s.leads[id] = l
	return true, nil
}

func (r memLeads) Restore(_ context.Context, id int64) (bool, error) {
	l, ok := r.s.leads[id]
	if !ok || l.DeletedAt == nil {
		return false, nil
	}
	l.DeletedAt = nil
	r.s.leads[id] = l
	return true, nil
}

type memInvoices struct{ s *memStore }

func (r memInvoices) visible(inv domain.Invoice) bool {
	return inv.DeletedAt == nil && r.s.clients[inv.ClientID].DeletedAt == nil
}

func (r memInvoices) hydrate(inv domain.Invoice) domain.Invoice {
	if c, ok := r.s.clients[inv.ClientID]; ok {
		inv.Client = &c
	}
	return inv
}

func (r memInvoices) List(_ context.Context, f ports.ListFilter) ([]domain.Invoice, int64, error) {
	var out []domain.Invoice
	for _, inv := range r.s.invoices {
		if !f.IncludeArchived && !r.visible(inv) {
			continue
		}
		out = append(out, r.hydrate(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	items, total := page(out, f)
	return items, total, nil
}

func (r memInvoices) Get(_ context.Context, id int64, includeArchived bool) (*domain.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok || (!includeArchived && !r.visible(inv)) {
		return nil, domain.ErrInvoiceNotFound
	}
	inv = r.hydrate(inv)
	return &inv, nil
}

func (r memInvoices) Create(_ context.Context, inv *domain.Invoice) error {
	inv.ID = r.s.id()
	stored := *inv
	stored.Client = nil
	r.s.invoices[inv.ID] = stored
	return nil
}

func (r memInvoices) Update(_ context.Context, inv *domain.Invoice) error {
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	stored := *inv
	stored.Client = nil
	r.s.invoices[inv.ID] = stored
	return nil
}

func (r memInvoices) SoftDelete(_ context.Context, id int64, at time.Time) (bool, error) {
	inv, ok := r.s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return false, nil
	}
	inv.DeletedAt = timePtr(at)
	r.s.invoices[id] = inv
	return true, nil
}

func (r memInvoices) Restore(_ context.Context, id int64) (bool, error) {
	inv, ok := r.s.invoices[id]
	if !ok || inv.DeletedAt == nil {
		return false, nil
	}
	inv.DeletedAt = nil
	r.s.invoices[id] = inv
	return true, nil
}

func (r memInvoices) SoftDeleteByClient(_ context.Context, clientID int64, at time.Time) (int64, error) {
	if r.s.failInvoiceCascade != nil {
		return 0, r.s.failInvoiceCascade
	}
	var n int64
	for id, inv := range r.s.invoices {
		if inv.ClientID == clientID && inv.DeletedAt == nil {
			inv.DeletedAt = timePtr(at)
			r.s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

func (r memInvoices) RestoreByClient(_ context.Context, clientID int64) (int64, error) {
	var n int64
	for id, inv := range r.s.invoices {
		if inv.ClientID == clientID && inv.DeletedAt != nil {
			inv.DeletedAt = nil
			r.s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

// memAudit is an in-memory audit trail. err, when set, fails every write.
type memAudit struct {
	entries []domain.AuditLog
	err     error
}

func (a *memAudit) Insert(_ context.Context, e *domain.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	e.ID = int64(len(a.entries) + 1)
	a.entries = append(a.entries, *e)
	return nil
}

func (a *memAudit) List(_ context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
	out := make([]domain.AuditLog, 0, len(a.entries))
	for i := len(a.entries) - 1; i >= 0; i-- {
		out = append(out, a.entries[i])
	}
	items, total := page(out, ports.ListFilter{Offset: offset, Limit: limit})
	return items, total, nil
}

// actions returns the recorded audit actions in insertion order.
func (a *memAudit) actions() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}
