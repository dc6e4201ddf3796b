package identity

import "time"

// Role determines what a user may do with transactions.
type Role string

const (
	// RoleUser may create and view transactions on cards they own.
	RoleUser Role = "USER"
	// RoleAdmin may additionally update transaction status and delete
	// pending transactions.
	RoleAdmin Role = "ADMIN"
)

// User represents a registered card holder.
type User struct {
	ID        string
	Name      string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
