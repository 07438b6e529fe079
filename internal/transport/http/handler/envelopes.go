package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ai-dashboard/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Code carries the identity
// failure code next to its human-readable Error.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AuthEnvelope wraps signup/login/refresh responses.
type AuthEnvelope struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	User         *UserView       `json:"user,omitempty"`
}

// UserView is what the dashboard needs to know about the signed-in user.
type UserView struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type PromptsEnvelope struct {
	Prompts []domain.Prompt `json:"prompts"`
}

type ChatEnvelope struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type ThemeEnvelope struct {
	Theme string `json:"theme"`
}

func toUserView(a *domain.Account) *UserView {
	if a == nil {
		return nil
	}
	return &UserView{UID: a.UserID, Email: a.Email, Role: a.Role, IsAdmin: a.IsAdmin()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func decodeJSON(r *http.Request, v interface{}) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}
