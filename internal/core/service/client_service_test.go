package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

func TestClientService_CreateAndUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed", Company: strp("ACME Consulting")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.ID == 0 || !c.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected client: %+v", c)
	}

	updated, err := f.clients.Update(ctx, staffUser, c.ID, ports.ClientInput{Name: "Amina E.", Email: strp("amina@acme-consulting.com")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Company != nil {
		t.Fatalf("expected full replace to clear company, got %q", *updated.Company)
	}

	if len(f.audit.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(f.audit.entries))
	}
	first, second := f.audit.entries[0], f.audit.entries[1]
	if first.Action != domain.ActionCreate || *first.Summary != "Created client: Amina El-Sayed" {
		t.Fatalf("unexpected create entry: %+v", first)
	}
	if second.Action != domain.ActionUpdate || *second.Summary != "Updated client: Amina E." {
		t.Fatalf("unexpected update entry: %+v", second)
	}
	if second.ActorUserID != staffUser.ID || second.ActorRole != domain.RoleStaff {
		t.Fatalf("unexpected actor on entry: %+v", second)
	}
}

func TestClientService_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.clients.Create(context.Background(), staffUser, ports.ClientInput{Name: "A"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.audit.entries) != 0 {
		t.Fatalf("expected no audit entries, got %d", len(f.audit.entries))
	}
}

func TestClientService_UpdateArchivedIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Omar Hassan"})
	if err := f.clients.Archive(ctx, adminUser, c.ID); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if _, err := f.clients.Update(ctx, staffUser, c.ID, ports.ClientInput{Name: "Omar"}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_ArchiveCascadesWithOneTimestamp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed"})
	early, _ := f.invoices.Create(ctx, staffUser, ports.InvoiceInput{ClientID: c.ID, Title: "Early", Amount: 10})
	late, _ := f.invoices.Create(ctx, staffUser, ports.InvoiceInput{ClientID: c.ID, Title: "Late", Amount: 20})

	earlyAt := f.clock.Advance(time.Hour)
	if err := f.invoices.Archive(ctx, adminUser, early.ID); err != nil {
		t.Fatalf("invoice Archive returned error: %v", err)
	}

	archiveAt := f.clock.Advance(time.Hour)
	if err := f.clients.Archive(ctx, adminUser, c.ID); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	stored := f.store.clients[c.ID]
	if stored.DeletedAt == nil || !stored.DeletedAt.Equal(archiveAt) {
		t.Fatalf("client deleted_at = %v, want %v", stored.DeletedAt, archiveAt)
	}
	if got := f.store.invoices[late.ID].DeletedAt; got == nil || !got.Equal(archiveAt) {
		t.Fatalf("cascaded invoice deleted_at = %v, want %v", got, archiveAt)
	}
	if got := f.store.invoices[early.ID].DeletedAt; got == nil || !got.Equal(earlyAt) {
		t.Fatalf("earlier archived invoice deleted_at = %v, want %v", got, earlyAt)
	}

	items, total, _ := f.invoices.List(ctx, ports.ListFilter{})
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected no visible invoices, got %d", total)
	}
}

func TestClientService_ArchiveTwiceIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed"})

	if err := f.clients.Archive(ctx, adminUser, c.ID); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if err := f.clients.Archive(ctx, adminUser, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second archive, got %v", err)
	}

	want := []string{domain.ActionCreate, domain.ActionArchive}
	if got := f.audit.actions(); len(got) != len(want) || got[1] != want[1] {
		t.Fatalf("audit actions = %v, want %v", got, want)
	}
}

func TestClientService_ArchiveRollsBackWhenCascadeFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed"})

	boom := errors.New("boom")
	f.store.failInvoiceCascade = boom
	if err := f.clients.Archive(ctx, adminUser, c.ID); !errors.Is(err, boom) {
		t.Fatalf("expected cascade error, got %v", err)
	}
	if f.store.clients[c.ID].DeletedAt != nil {
		t.Fatalf("client archive was not rolled back")
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected only the create entry, got %v", f.audit.actions())
	}
}

func TestClientService_RestoreRestoresEveryInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed"})
	a, _ := f.invoices.Create(ctx, staffUser, ports.InvoiceInput{ClientID: c.ID, Title: "Alone", Amount: 10})
	b, _ := f.invoices.Create(ctx, staffUser, ports.InvoiceInput{ClientID: c.ID, Title: "Cascaded", Amount: 20})

	f.clock.Advance(time.Minute)
	_ = f.invoices.Archive(ctx, adminUser, a.ID)
	f.clock.Advance(time.Minute)
	_ = f.clients.Archive(ctx, adminUser, c.ID)

	restored, err := f.clients.Restore(ctx, adminUser, c.ID)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Fatalf("expected restored client to be active")
	}
	for _, id := range []int64{a.ID, b.ID} {
		if f.store.invoices[id].DeletedAt != nil {
			t.Fatalf("invoice %d still archived", id)
		}
	}

	last := f.audit.entries[len(f.audit.entries)-1]
	if last.Action != domain.ActionRestore || *last.Summary != "Restored client: Amina El-Sayed" {
		t.Fatalf("unexpected restore entry: %+v", last)
	}
}

func TestClientService_RestoreNoopWritesNoAudit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Amina El-Sayed"})

	if _, err := f.clients.Restore(ctx, adminUser, c.ID); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected no restore entry, got %v", f.audit.actions())
	}

	if _, err := f.clients.Restore(ctx, adminUser, 999); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_ListExcludesArchived(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Active"})
	b, _ := f.clients.Create(ctx, staffUser, ports.ClientInput{Name: "Archived"})
	_ = f.clients.Archive(ctx, adminUser, b.ID)

	items, total, err := f.clients.List(ctx, ports.ListFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || items[0].ID != a.ID {
		t.Fatalf("unexpected listing: %+v", items)
	}

	_, total, _ = f.clients.List(ctx, ports.ListFilter{IncludeArchived: true})
	if total != 2 {
		t.Fatalf("expected 2 clients with archived, got %d", total)
	}
}

func TestClientService_AuditFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture()
	f.audit.err = errors.New("audit store down")

	c, err := f.clients.Create(context.Background(), staffUser, ports.ClientInput{Name: "Amina El-Sayed"})
	if err != nil {
		t.Fatalf("expected create to succeed despite audit failure, got %v", err)
	}
	if _, ok := f.store.clients[c.ID]; !ok {
		t.Fatalf("client was not persisted")
	}
}
