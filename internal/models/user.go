package models

// Role values stored in users.role. The column has a CHECK constraint
// mirroring this list, so both sides must change together.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
