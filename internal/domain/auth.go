package domain

import "fmt"

// Identity failure codes. The values match the codes the dashboard front-end
// already switches on, so clients can keep their existing handling.
const (
	AuthInvalidEmail         = "auth/invalid-email"
	AuthUserDisabled         = "auth/user-disabled"
	AuthUserNotFound         = "auth/user-not-found"
	AuthWrongPassword        = "auth/wrong-password"
	AuthInvalidCredential    = "auth/invalid-credential"
	AuthEmailAlreadyInUse    = "auth/email-already-in-use"
	AuthWeakPassword         = "auth/weak-password"
	AuthOperationNotAllowed  = "auth/operation-not-allowed"
	AuthNetworkRequestFailed = "auth/network-request-failed"
	MinPasswordLength        = 6
)

var authMessages = map[string]string{
	AuthInvalidEmail:         "Please enter a valid email address",
	AuthUserDisabled:         "This account has been disabled",
	AuthUserNotFound:         "No account found with this email",
	AuthWrongPassword:        "Incorrect password",
	AuthInvalidCredential:    "Invalid email or password",
	AuthEmailAlreadyInUse:    "An account with this email already exists. Try logging in instead or use a different email.",
	AuthWeakPassword:         fmt.Sprintf("Password should be at least %d characters", MinPasswordLength),
	AuthOperationNotAllowed:  "Email/password sign-up is disabled. Please contact support.",
	AuthNetworkRequestFailed: "Network error. Please check your connection.",
}

// AuthError is returned by the identity provider. Code is one of the Auth* constants.
type AuthError struct {
	Code string
	Err  error
}

func NewAuthError(code string, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message is the human-readable text shown to the user for this failure.
func (e *AuthError) Message() string {
	return AuthMessage(e.Code)
}

// AuthMessage maps an identity failure code to user-facing text.
// Unknown codes fall back to a generic message; the raw code is never the message.
func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return "Authentication failed. Please try again."
}
