package domain

import "time"

// Client is a customer of the business. A nil DeletedAt means the client is active.
type Client struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Email     *string    `db:"email"`
	Phone     *string    `db:"phone"`
	Company   *string    `db:"company"`
	Notes     *string    `db:"notes"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// Archived reports whether the client has been soft-deleted.
func (c *Client) Archived() bool { return c.DeletedAt != nil }
