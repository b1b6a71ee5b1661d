package domain

import "time"

// Role is the authorization level carried by a user and its tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

var roleRank = map[Role]int{
	RoleStaff: 1,
	RoleAdmin: 2,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants. Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[min]
}

// User models an authenticated actor in the system. Users are provisioned at
// seed time and never change afterwards.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}
