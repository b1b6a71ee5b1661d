package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

type stubAuditService struct {
	ports.AuditService
	listFn func(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error)
}

func (s *stubAuditService) List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
	return s.listFn(ctx, offset, limit)
}

func TestAuditHandler_List(t *testing.T) {
	stub := &stubAuditService{
		listFn: func(_ context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
			if offset != 5 || limit != 5 {
				t.Fatalf("unexpected window: %d %d", offset, limit)
			}
			return []domain.AuditLog{{
				ID: 11, EntityType: domain.EntityLead, EntityID: 2, Action: domain.ActionStatusChange,
				ActorUserID: 2, ActorRole: domain.RoleStaff, Summary: strp("Lead status: Dana new → qualified"), CreatedAt: t0,
			}}, 6, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/api/audit-logs?page=2&page_size=5", "", adminUser)

	if err := NewAuditHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(HeaderTotalPages); got != "2" {
		t.Fatalf("expected 2 pages, got %q", got)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if _, ok := body[0]["timestamp"]; !ok {
		t.Fatalf("entry should carry timestamp: %v", body[0])
	}
	if body[0]["actor_role"] != "staff" || body[0]["action"] != "status_change" {
		t.Fatalf("unexpected entry: %v", body[0])
	}
}
