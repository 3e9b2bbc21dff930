package identity

import "slices"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleSeller || r == RoleBuyer }

// RoleSet is existence-checked; order carries no meaning.
type RoleSet []Role

func (s RoleSet) Has(r Role) bool { return slices.Contains(s, r) }

// Intersects reports whether any role in allowed is held.
func (s RoleSet) Intersects(allowed RoleSet) bool {
	for _, r := range allowed {
		if s.Has(r) {
			return true
		}
	}
	return false
}

type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
