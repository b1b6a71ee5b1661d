package handler

import (
	"time"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

// --- requests ---

type clientRequest struct {
	Name    string  `json:"name" validate:"required,notblank,min=2,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Notes   *string `json:"notes"`
}

func (r clientRequest) input() ports.ClientInput {
	return ports.ClientInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Company: r.Company, Notes: r.Notes}
}

type leadRequest struct {
	Name   string  `json:"name" validate:"required,notblank,min=2,max=200"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Source *string `json:"source" validate:"omitempty,max=200"`
	Status string  `json:"status" validate:"omitempty,oneof=new contacted qualified lost"`
	Notes  *string `json:"notes"`
}

func (r leadRequest) input() ports.LeadInput {
	return ports.LeadInput{
		Name:   r.Name,
		Email:  r.Email,
		Source: r.Source,
		Status: domain.LeadStatus(r.Status),
		Notes:  r.Notes,
	}
}

type invoiceRequest struct {
	ClientID int64      `json:"client_id" validate:"required,gt=0"`
	Title    string     `json:"title" validate:"required,notblank,min=2,max=200"`
	Amount   float64    `json:"amount" validate:"gt=0"`
	Status   string     `json:"status" validate:"omitempty,oneof=draft sent paid"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
}

func (r invoiceRequest) input() ports.InvoiceInput {
	return ports.InvoiceInput{
		ClientID: r.ClientID,
		Title:    r.Title,
		Amount:   r.Amount,
		Status:   domain.InvoiceStatus(r.Status),
		PaidAt:   r.PaidAt,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// --- responses ---

type clientResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Company   *string    `json:"company"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type leadResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Source    *string    `json:"source"`
	Status    string     `json:"status"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type invoiceResponse struct {
	ID        int64           `json:"id"`
	ClientID  int64           `json:"client_id"`
	Title     string          `json:"title"`
	Amount    float64         `json:"amount"`
	Status    string          `json:"status"`
	IssuedAt  time.Time       `json:"issued_at"`
	PaidAt    *time.Time      `json:"paid_at"`
	DeletedAt *time.Time      `json:"deleted_at"`
	Client    *clientResponse `json:"client"`
}

type auditLogResponse struct {
	ID          int64     `json:"id"`
	EntityType  string    `json:"entity_type"`
	EntityID    int64     `json:"entity_id"`
	Action      string    `json:"action"`
	ActorUserID int64     `json:"actor_user_id"`
	ActorRole   string    `json:"actor_role"`
	Timestamp   time.Time `json:"timestamp"`
	Summary     *string   `json:"summary"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// errorResponse documents the error envelope for swag.
type errorResponse struct {
	Detail string `json:"detail"`
}

// --- mappers ---

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		DeletedAt: c.DeletedAt,
	}
}

func toLeadResponse(l *domain.Lead) leadResponse {
	return leadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Source:    l.Source,
		Status:    string(l.Status),
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		DeletedAt: l.DeletedAt,
	}
}

func toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		Title:     inv.Title,
		Amount:    inv.Amount,
		Status:    string(inv.Status),
		IssuedAt:  inv.IssuedAt,
		PaidAt:    inv.PaidAt,
		DeletedAt: inv.DeletedAt,
	}
	if inv.Client != nil {
		client := toClientResponse(inv.Client)
		resp.Client = &client
	}
	return resp
}

func toAuditLogResponse(a *domain.AuditLog) auditLogResponse {
	return auditLogResponse{
		ID:          a.ID,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Action:      a.Action,
		ActorUserID: a.ActorUserID,
		ActorRole:   string(a.ActorRole),
		Timestamp:   a.CreatedAt,
		Summary:     a.Summary,
	}
}

// mapAll converts a slice with fn. The result is never nil so empty lists
// encode as [].
func mapAll[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
