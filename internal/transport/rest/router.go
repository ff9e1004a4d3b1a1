package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/transport/middleware"
)

const (
	rateScopeAPI    = "api"
	rateScopeImport = "import"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// RouterDeps holds everything the HTTP router serves.
type RouterDeps struct {
	Logger      *slog.Logger
	Health      *HealthHandler
	Watchlist   *WatchlistHandler
	Tokens      tokenValidator
	RateLimiter *middleware.RateLimiter
	CORS        config.CORSConfig
	RateLimit   config.RateLimitConfig
}

// NewRouter builds the HTTP handler: probes at the root and the watchlist
// API under /api/watchlist.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Auth(deps.Tokens))
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/live", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Get("/health", deps.Health.Health)

	h := deps.Watchlist
	r.Route("/api/watchlist", func(r chi.Router) {
		r.Use(deps.RateLimiter.Limit(rateScopeAPI, deps.RateLimit.RequestsPerMinute))

		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/status", h.Status)
		r.Get("/export", h.Export)
		r.Patch("/items", h.UpdateItem)
		r.Post("/move", h.Move)
		r.Delete("/{id}", h.Remove)

		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.Limit(rateScopeImport, deps.RateLimit.ImportPerMinute))
			r.Post("/import", h.Import)
			r.Post("/import/preview", h.Preview)
		})
	})

	return r
}
