package domain

// UserRegistryEntry is the registration metadata kept for every known user.
// Both times are epoch millis.
type UserRegistryEntry struct {
	Email            string `json:"email"`
	RegistrationDate int64  `json:"registrationDate"`
	LastLogin        int64  `json:"lastLogin"`
}

// UserRegistry maps uid to its registry entry.
type UserRegistry map[string]UserRegistryEntry
