package entity

// Role is the coarse authorization level carried by a user and its token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RoleOrDefault returns r, or RoleUser when r is empty.
func RoleOrDefault(r Role) Role {
	if r == "" {
		return RoleUser
	}
	return r
}
