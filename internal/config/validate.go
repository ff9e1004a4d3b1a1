package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}

	if err := c.Watchlist.validate(); err != nil {
		return fmt.Errorf("watchlist: %w", err)
	}

	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.ImportPerMinute <= 0 {
		return fmt.Errorf("rate_limit: limits must be > 0")
	}

	return nil
}

func (w *WatchlistConfig) validate() error {
	if w.ImportMaxRows <= 0 {
		return fmt.Errorf("import_max_rows must be > 0 (got %d)", w.ImportMaxRows)
	}
	if w.MaxMissingTitleRatio <= 0 || w.MaxMissingTitleRatio > 1 {
		return fmt.Errorf("max_missing_title_ratio must be in (0, 1] (got %v)", w.MaxMissingTitleRatio)
	}
	if w.WriteRetryAttempts < 1 || w.WriteRetryAttempts > 10 {
		return fmt.Errorf("write_retry_attempts must be in [1, 10] (got %d)", w.WriteRetryAttempts)
	}
	if w.WriteRetryInitialInterval <= 0 {
		return fmt.Errorf("write_retry_initial_interval must be > 0 (got %s)", w.WriteRetryInitialInterval)
	}
	if w.EnrichConcurrency < 1 {
		return fmt.Errorf("enrich_concurrency must be >= 1 (got %d)", w.EnrichConcurrency)
	}
	if w.EnrichBatchSize < 1 {
		return fmt.Errorf("enrich_batch_size must be >= 1 (got %d)", w.EnrichBatchSize)
	}
	if w.ListDefaultLimit < 1 || w.ListDefaultLimit > w.ListMaxLimit {
		return fmt.Errorf("list_default_limit must be in [1, list_max_limit] (got %d)", w.ListDefaultLimit)
	}
	if w.ExportMaxEntries <= 0 {
		return fmt.Errorf("export_max_entries must be > 0 (got %d)", w.ExportMaxEntries)
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.RatePerSec <= 0 {
		return fmt.Errorf("rate_per_sec must be > 0 (got %v)", c.RatePerSec)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be >= 1 (got %d)", c.Burst)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", c.MaxRetries)
	}
	return nil
}
