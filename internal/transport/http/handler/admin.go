package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ai-dashboard/internal/application/stats"
	"github.com/ai-dashboard/internal/domain"
)

// AdminHandler serves the usage aggregation to admins.
type AdminHandler struct {
	svc      stats.Service
	streamer *Streamer
	interval time.Duration
}

func NewAdminHandler(svc stats.Service, streamer *Streamer, interval time.Duration) *AdminHandler {
	return &AdminHandler{svc: svc, streamer: streamer, interval: interval}
}

// Stats returns the cached snapshot; ?refresh=true forces a recompute.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	snap, err := h.svc.Snapshot(r.Context(), refresh)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *AdminHandler) Registry(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.Registry(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// Stream recomputes on connect, on every interval tick and whenever the
// client sends "refresh".
func (h *AdminHandler) Stream(w http.ResponseWriter, r *http.Request) {
	h.streamer.Serve(w, r, "admin_stats", func(ctx context.Context, st *Stream) {
		h.svc.Watch(ctx, h.interval, st.Refresh(), func(snap *domain.AdminSnapshot, err error) {
			if err != nil {
				st.log.Warn("stats recompute failed", zap.Error(err))
				_ = st.Emit(ctx, EventError, MessageEnvelope{Error: "failed to compute stats"})
				return
			}
			_ = st.Emit(ctx, EventStats, snap)
		})
	})
}
