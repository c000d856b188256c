package model

// Actor is the authenticated caller of a core operation. It is built per
// request from a validated token and passed explicitly; there is no ambient
// current user.
type Actor struct {
	UserID   int64
	Username string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role string) bool {
	return a.UserID > 0 && a.Role == role
}

// Authenticated reports whether the actor refers to a real user.
func (a Actor) Authenticated() bool {
	return a.UserID > 0 && ValidRole(a.Role)
}

// OwnsOrAdmin reports whether the actor is the given owner or an admin.
func (a Actor) OwnsOrAdmin(ownerID int64) bool {
	return a.IsAdmin() || (a.UserID > 0 && a.UserID == ownerID)
}
