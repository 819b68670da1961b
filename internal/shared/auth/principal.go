// Package auth carries the caller identity as an explicit capability value.
package auth

// Role distinguishes privileged from regular callers.
type Role string

const (
	RoleAdopter Role = "adopter"
	RoleAdmin   Role = "admin"
)

// Principal is the verified identity attached to a request. Services receive it
// as part of each operation input instead of reading ambient session state.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

// IsAdmin reports whether the principal may perform administrative operations.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsZero reports whether no authenticated identity is present.
func (p Principal) IsZero() bool {
	return p.UserID == 0 && p.Username == ""
}
