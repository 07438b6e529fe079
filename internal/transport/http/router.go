package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ai-dashboard/internal/application/auth"
	"github.com/ai-dashboard/internal/application/chat"
	"github.com/ai-dashboard/internal/application/notification"
	"github.com/ai-dashboard/internal/application/preference"
	"github.com/ai-dashboard/internal/application/prompt"
	"github.com/ai-dashboard/internal/application/stats"
	"github.com/ai-dashboard/internal/config"
	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/cache"
	jwtinfra "github.com/ai-dashboard/internal/infrastructure/jwt"
	"github.com/ai-dashboard/internal/infrastructure/kv"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
	"github.com/ai-dashboard/internal/localstore"
	"github.com/ai-dashboard/internal/pkg/pubsub"
	"github.com/ai-dashboard/internal/transport/http/handler"
	appmiddleware "github.com/ai-dashboard/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	SessionRepo SessionRepository
	ChatRepo    ChatRepository
	KV          *kv.Adapter
	Cache       cache.Cache
	Metrics     metrics.Recorder
	JWTProvider *jwtinfra.Provider
	Log         *zap.Logger
}

// NewRouter builds and returns the application router. ctx bounds the
// router's background work.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.Nop()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Logging(log))
	r.Use(appmiddleware.Recovery(log))
	r.Use(metrics.Middleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	promptStore := localstore.NewPromptStore(deps.KV)
	notifStore := localstore.NewNotificationStore(deps.KV)
	registry := localstore.NewRegistry(deps.KV)
	themes := localstore.NewThemeStore(deps.KV)
	promptEvents := pubsub.NewHub[domain.PromptSaved]()

	notifSvc := notification.NewService(notifStore, m)
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		Registry:        registry,
		Notifications:   notifSvc,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: time.Duration(cfg.RefreshTokenExpiryDays) * 24 * time.Hour,
		AdminEmails:     cfg.AdminEmails,
		SignupEnabled:   cfg.SignupEnabled,
		Log:             log.Named("auth"),
	})
	promptSvc := prompt.NewService(promptStore, promptEvents, m)
	prefSvc := preference.NewService(themes)
	chatSvc := chat.NewService(chat.ServiceDeps{
		Repo:     deps.ChatRepo,
		Location: cfg.Location(),
		Metrics:  m,
		Log:      log.Named("chat"),
	})
	statsSvc := stats.NewService(stats.ServiceDeps{
		Prompts:           promptStore,
		Registry:          registry,
		Cache:             deps.Cache,
		Metrics:           m,
		Location:          cfg.Location(),
		CacheTTL:          cfg.AdminRefreshInterval,
		SyntheticFallback: cfg.AdminSyntheticFallback,
		Log:               log.Named("stats"),
	})

	if cfg.ChatSeedSample {
		if err := chatSvc.SeedIfEmpty(ctx); err != nil {
			log.Warn("failed to seed chat", zap.Error(err))
		}
	}

	streamer := handler.NewStreamer(cfg.AllowedOrigins, m, log.Named("stream"))
	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	promptH := handler.NewPromptHandler(promptSvc, promptEvents, streamer)
	notifH := handler.NewNotificationHandler(notifSvc)
	chatH := handler.NewChatHandler(chatSvc, streamer)
	prefH := handler.NewPreferenceHandler(prefSvc)
	adminH := handler.NewAdminHandler(statsSvc, streamer, cfg.AdminRefreshInterval)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	r.Handle("/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/signup", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/auth/me", authH.Me)

			r.Get("/prompts", promptH.List)
			r.Post("/prompts", promptH.Create)
			r.Get("/prompts/ws", promptH.Stream)

			r.Get("/notifications", notifH.List)
			r.Post("/notifications", notifH.Create)
			r.Put("/notifications/{id}/read", notifH.MarkRead)

			r.Get("/chat/messages", chatH.List)
			r.Post("/chat/messages", chatH.Send)
			r.Get("/chat/ws", chatH.Stream)

			r.Get("/preferences/theme", prefH.GetTheme)
			r.Put("/preferences/theme", prefH.SetTheme)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/admin/stats", adminH.Stats)
				r.Get("/admin/stats/ws", adminH.Stream)
				r.Get("/admin/registry", adminH.Registry)
			})
		})
	})

	return r
}
