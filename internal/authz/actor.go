package authz

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Actor is the authorization context resolved from the caller's session.
// Every service operation receives one and applies the ownership rule itself,
// in addition to the route-level rbac guard.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports whether the actor may act on a resource owned by ownerID:
// owners always may, admins always may, nobody else ever may.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
