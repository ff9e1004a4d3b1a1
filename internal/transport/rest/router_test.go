package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist"
	"github.com/heartmarshall/watchlist-backend/internal/transport/middleware"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

type staticTokens struct {
	owner uuid.UUID
}

func (s staticTokens) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	switch token {
	case "good":
		return s.owner, nil
	case "explode":
		panic("token store unavailable")
	}
	return uuid.Nil, errors.New("bad token")
}

func newTestRouter(t *testing.T, svc *watchlistServiceMock, limits config.RateLimitConfig) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)

	return NewRouter(RouterDeps{
		Logger:      logger,
		Health:      NewHealthHandler(&dbPingerMock{}, "test", true),
		Watchlist:   NewWatchlistHandler(svc, testUploadLimit, logger),
		Tokens:      staticTokens{owner: uuid.New()},
		RateLimiter: rl,
		CORS:        config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PATCH,DELETE", AllowedHeaders: "Authorization,Content-Type"},
		RateLimit:   limits,
	})
}

func TestRouter_Probes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &watchlistServiceMock{}, config.RateLimitConfig{})

	for _, path := range []string{"/live", "/ready", "/health"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestRouter_OwnerFromToken(t *testing.T) {
	t.Parallel()

	var sawOwner bool
	svc := &watchlistServiceMock{
		ListEntriesFunc: func(ctx context.Context, _ watchlist.ListInput) (*watchlist.ListResult, error) {
			_, sawOwner = ctxutil.OwnerIDFromCtx(ctx)
			return &watchlist.ListResult{}, nil
		},
	}
	router := newTestRouter(t, svc, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawOwner)
}

func TestRouter_InvalidToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &watchlistServiceMock{}, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ImportRateLimited(t *testing.T) {
	t.Parallel()

	svc := &watchlistServiceMock{
		PreviewImportFunc: func(context.Context, watchlist.PreviewInput) (*watchlist.PreviewResult, error) {
			return &watchlist.PreviewResult{}, nil
		},
		ExportEntriesFunc: func(context.Context) (*watchlist.ExportResult, error) {
			return &watchlist.ExportResult{}, nil
		},
	}
	router := newTestRouter(t, svc, config.RateLimitConfig{RequestsPerMinute: 100, ImportPerMinute: 1})

	send := func(req *http.Request) int {
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(multipartRequest(t, "/api/watchlist/import/preview", []byte("Title\n"), nil)))
	assert.Equal(t, http.StatusTooManyRequests, send(multipartRequest(t, "/api/watchlist/import/preview", []byte("Title\n"), nil)))

	// Other endpoints draw from the general budget.
	assert.Equal(t, http.StatusOK, send(httptest.NewRequest(http.MethodGet, "/api/watchlist/export", nil)))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &watchlistServiceMock{}, config.RateLimitConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/watchlist/move", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_PanicBeforeHandlerIsRecovered(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &watchlistServiceMock{}, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.Header.Set("Authorization", "Bearer explode")
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { router.ServeHTTP(rec, req) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}
