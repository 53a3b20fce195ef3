package domain

// Role is the permission level an actor holds within its tenant.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Roles is the closed set of valid roles.
var Roles = []Role{RoleAdmin, RoleStaff}

// Valid reports whether r is a member of Roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Actor is the tenant-and-role identity a request executes under.
//
// The core trusts an Actor verbatim and never authenticates it. Callers must
// build one only from a server-verified session (see adapter/session).
type Actor struct {
	TenantID string
	Role     Role
}

// Valid reports whether the actor is scoped to a tenant and holds a known role.
func (a Actor) Valid() bool {
	return a.TenantID != "" && a.Role.Valid()
}
