package lookups

// Symbols of legal values (stored as text in the users collection)
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether value is a known role
func ValidRole(value string) bool {
	return value == RoleUser || value == RoleAdmin
}
