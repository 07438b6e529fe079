package handler

import (
	"context"
	"net/http"

	"github.com/ai-dashboard/internal/application/chat"
	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/transport/http/middleware"
)

// ChatHandler handles the shared team chat.
type ChatHandler struct {
	svc      chat.Service
	streamer *Streamer
}

func NewChatHandler(svc chat.Service, streamer *Streamer) *ChatHandler {
	return &ChatHandler{svc: svc, streamer: streamer}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Messages(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatEnvelope{Messages: msgs})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ChatMessageInput
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := h.svc.Send(r.Context(), chat.SendInput{Email: claims.Email, Message: req.Message})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Stream pushes the full ascending history on connect and after every post.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.streamer.Serve(w, r, "chat", func(ctx context.Context, st *Stream) {
		unsubscribe := h.svc.Subscribe(ctx, func(msgs []domain.ChatMessage) {
			_ = st.Emit(ctx, EventChat, msgs)
		})
		<-ctx.Done()
		unsubscribe()
	})
}
