package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ai-dashboard/internal/application/prompt"
	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/transport/http/middleware"
)

type promptEvents interface {
	Subscribe(fn func(domain.PromptSaved)) (unsubscribe func())
}

// PromptHandler handles prompt submission and the per-user prompt history.
type PromptHandler struct {
	svc      prompt.Service
	events   promptEvents
	streamer *Streamer
}

func NewPromptHandler(svc prompt.Service, events promptEvents, streamer *Streamer) *PromptHandler {
	return &PromptHandler{svc: svc, events: events, streamer: streamer}
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	prompts, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PromptsEnvelope{Prompts: prompts})
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.PromptInput
	if !decodeJSON(r, &req) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Submit(r.Context(), claims.UserID, req.Prompt)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Stream pushes the caller's full prompt history on connect and after each
// prompt they save, from any tab.
func (h *PromptHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	uid := claims.UserID
	h.streamer.Serve(w, r, "prompts", func(ctx context.Context, st *Stream) {
		dirty := make(chan struct{}, 1)
		dirty <- struct{}{}
		unsubscribe := h.events.Subscribe(func(e domain.PromptSaved) {
			if e.UID != uid {
				return
			}
			select {
			case dirty <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
			}
			prompts, err := h.svc.List(ctx, uid)
			if err != nil {
				st.log.Warn("list prompts for stream", zap.Error(err))
				prompts = []domain.Prompt{}
			}
			if err := st.Emit(ctx, EventPrompts, prompts); err != nil {
				return
			}
		}
	})
}
