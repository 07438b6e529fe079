package domain

// Role names carried on accounts and in the JWT role claim.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
