package domain

import "time"

// InvoiceStatus represents the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid:
		return true
	}
	return false
}

// Invoice bills a client. Client is populated by reads and is never persisted.
type Invoice struct {
	ID        int64         `db:"id"`
	ClientID  int64         `db:"client_id"`
	Title     string        `db:"title"`
	Amount    float64       `db:"amount"`
	Status    InvoiceStatus `db:"status"`
	IssuedAt  time.Time     `db:"issued_at"`
	PaidAt    *time.Time    `db:"paid_at"`
	DeletedAt *time.Time    `db:"deleted_at"`

	Client *Client `db:"-"`
}

func (i *Invoice) Archived() bool { return i.DeletedAt != nil }

// DerivePaidAt keeps PaidAt consistent with Status: a paid invoice always has a
// payment time (now, unless one is already set) and any other status has none.
func (i *Invoice) DerivePaidAt(now time.Time) {
	if i.Status != InvoicePaid {
		i.PaidAt = nil
		return
	}
	if i.PaidAt == nil {
		t := now
		i.PaidAt = &t
	}
}
