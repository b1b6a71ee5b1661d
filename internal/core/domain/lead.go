package domain

import "time"

// LeadStatus tracks a lead through the sales funnel.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadLost      LeadStatus = "lost"
)

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadLost:
		return true
	}
	return false
}

// Lead is a prospective client. It has no relationships.
type Lead struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Email     *string    `db:"email"`
	Source    *string    `db:"source"`
	Status    LeadStatus `db:"status"`
	Notes     *string    `db:"notes"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (l *Lead) Archived() bool { return l.DeletedAt != nil }
