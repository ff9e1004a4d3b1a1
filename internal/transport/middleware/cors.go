package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/heartmarshall/watchlist-backend/internal/config"
)

// exposedHeaders are readable by browser clients: the request id for support
// tickets and the export file name.
var exposedHeaders = []string{"X-Request-Id", "Content-Disposition"}

// CORS returns middleware that handles Cross-Origin Resource Sharing,
// including preflight OPTIONS requests.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   cfg.Methods(),
		AllowedHeaders:   cfg.Headers(),
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
