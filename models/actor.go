package models

const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Actor is the authenticated caller as supplied by the identity layer.
type Actor struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}
