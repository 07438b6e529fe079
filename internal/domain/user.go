package domain

import "time"

// Account is the identity provider's record of a user. The dashboard itself
// only ever sees the uid and email; everything else stays behind the auth service.
type Account struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
