package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Origins splits AllowedOrigins into a trimmed list.
func (c CORSConfig) Origins() []string { return splitList(c.AllowedOrigins) }

// Methods splits AllowedMethods into a trimmed list.
func (c CORSConfig) Methods() []string { return splitList(c.AllowedMethods) }

// Headers splits AllowedHeaders into a trimmed list.
func (c CORSConfig) Headers() []string { return splitList(c.AllowedHeaders) }

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns         int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns         int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate      bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
	StatementTimeout time.Duration `yaml:"statement_timeout"  env:"DATABASE_STATEMENT_TIMEOUT"  env-default:"30s"`
}

// AuthConfig holds bearer token verification settings. Tokens are issued by
// the hosted identity provider and signed with a shared secret.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"watchlist"`
	ClockSkew time.Duration `yaml:"clock_skew" env:"AUTH_CLOCK_SKEW" env-default:"30s"`
}

// WatchlistConfig holds import, reorder, and listing settings.
type WatchlistConfig struct {
	ImportMaxRows             int           `yaml:"import_max_rows"              env:"WATCHLIST_IMPORT_MAX_ROWS"              env-default:"10000"`
	MaxMissingTitleRatio      float64       `yaml:"max_missing_title_ratio"      env:"WATCHLIST_MAX_MISSING_TITLE_RATIO"      env-default:"0.5"`
	WriteRetryAttempts        int           `yaml:"write_retry_attempts"         env:"WATCHLIST_WRITE_RETRY_ATTEMPTS"         env-default:"3"`
	WriteRetryInitialInterval time.Duration `yaml:"write_retry_initial_interval" env:"WATCHLIST_WRITE_RETRY_INITIAL_INTERVAL" env-default:"50ms"`
	EnrichConcurrency         int           `yaml:"enrich_concurrency"           env:"WATCHLIST_ENRICH_CONCURRENCY"           env-default:"4"`
	EnrichBatchSize           int           `yaml:"enrich_batch_size"            env:"WATCHLIST_ENRICH_BATCH_SIZE"            env-default:"50"`
	ListDefaultLimit          int           `yaml:"list_default_limit"           env:"WATCHLIST_LIST_DEFAULT_LIMIT"           env-default:"50"`
	ListMaxLimit              int           `yaml:"list_max_limit"               env:"WATCHLIST_LIST_MAX_LIMIT"               env-default:"200"`
	ExportMaxEntries          int           `yaml:"export_max_entries"           env:"WATCHLIST_EXPORT_MAX_ENTRIES"           env-default:"10000"`
}

// CatalogConfig holds TMDB client settings. An empty API key disables
// catalog lookups; rows must then carry their own TMDB ids.
type CatalogConfig struct {
	BaseURL    string        `yaml:"base_url"    env:"TMDB_BASE_URL"    env-default:"https://api.themoviedb.org/3"`
	APIKey     string        `yaml:"api_key"     env:"TMDB_API_KEY"`
	Timeout    time.Duration `yaml:"timeout"     env:"TMDB_TIMEOUT"     env-default:"10s"`
	RatePerSec float64       `yaml:"rate_per_sec" env:"TMDB_RATE_PER_SEC" env-default:"20"`
	Burst      int           `yaml:"burst"       env:"TMDB_BURST"       env-default:"5"`
	MaxRetries int           `yaml:"max_retries" env:"TMDB_MAX_RETRIES" env-default:"2"`
}

// Enabled reports whether catalog lookups are configured.
func (c CatalogConfig) Enabled() bool { return c.APIKey != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client request limits for the REST API.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"     env-default:"120"`
	ImportPerMinute   int           `yaml:"import_per_minute"   env:"RATE_LIMIT_IMPORT_RPM" env-default:"6"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP" env-default:"5m"`
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
