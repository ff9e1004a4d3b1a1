package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/provider"
)

const defaultRetryDelay = 500 * time.Millisecond

// Provider looks up movies and series in The Movie Database API.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewProvider creates a Provider from the catalog configuration.
func NewProvider(cfg config.CatalogConfig, logger *slog.Logger) *Provider {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst),
		maxRetries: cfg.MaxRetries,
		retryDelay: defaultRetryDelay,
		log:        logger.With("adapter", "tmdb"),
	}
}

// FindByIMDbID resolves an IMDb title id. When the id matches both a movie
// and a series, the one of preferred type wins.
// Returns nil, nil if nothing matches.
func (p *Provider) FindByIMDbID(ctx context.Context, imdbID string, preferred domain.MediaType) (*provider.CatalogItem, error) {
	q := url.Values{}
	q.Set("external_source", "imdb_id")

	var body apiFindResponse
	found, err := p.getJSON(ctx, "/find/"+url.PathEscape(imdbID), q, &body)
	if err != nil || !found {
		return nil, err
	}

	movie := firstItem(body.MovieResults, domain.MediaTypeMovie)
	tv := firstItem(body.TVResults, domain.MediaTypeTV)

	switch {
	case movie != nil && tv != nil:
		if preferred == domain.MediaTypeTV {
			return tv, nil
		}
		return movie, nil
	case movie != nil:
		return movie, nil
	default:
		return tv, nil
	}
}

// Search looks a title up and returns the best match: an exact title with the
// same year, then an exact title, then the top result.
// Returns nil, nil if the search is empty.
func (p *Provider) Search(ctx context.Context, query provider.SearchQuery) (*provider.CatalogItem, error) {
	mediaType := query.MediaType
	if !mediaType.IsValid() {
		mediaType = domain.MediaTypeMovie
	}

	q := url.Values{}
	q.Set("query", query.Title)
	q.Set("include_adult", "false")
	if query.Year > 0 {
		if mediaType == domain.MediaTypeTV {
			q.Set("first_air_date_year", strconv.Itoa(query.Year))
		} else {
			q.Set("year", strconv.Itoa(query.Year))
		}
	}

	var body apiSearchResponse
	found, err := p.getJSON(ctx, "/search/"+string(mediaType), q, &body)
	if err != nil || !found || len(body.Results) == 0 {
		return nil, err
	}

	return bestMatch(body.Results, mediaType, query), nil
}

// GetDetails fetches full metadata of a catalog item.
// Returns nil, nil if the item does not exist (HTTP 404).
func (p *Provider) GetDetails(ctx context.Context, mediaType domain.MediaType, externalID int) (*provider.CatalogItem, error) {
	q := url.Values{}
	if mediaType == domain.MediaTypeTV {
		q.Set("append_to_response", "external_ids")
	}

	var body apiDetails
	found, err := p.getJSON(ctx, fmt.Sprintf("/%s/%d", mediaType, externalID), q, &body)
	if err != nil || !found {
		return nil, err
	}

	return mapDetails(body, mediaType), nil
}

// getJSON performs a rate-limited GET and decodes the body into dst.
// found is false on HTTP 404.
func (p *Provider) getJSON(ctx context.Context, path string, q url.Values, dst any) (found bool, err error) {
	q.Set("api_key", p.apiKey)
	reqURL := p.baseURL + path + "?" + q.Encode()

	p.log.DebugContext(ctx, "tmdb request", slog.String("path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("tmdb: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.doWithRetry(ctx, req, path)
	if err != nil {
		p.log.ErrorContext(ctx, "tmdb request failed", slog.String("path", path), slog.String("error", err.Error()))
		return false, fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("tmdb: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("tmdb: read body: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("tmdb: decode json: %w", err)
	}
	return true, nil
}

// errRetryableStatus marks a 429 or 5xx answer that is worth another attempt.
var errRetryableStatus = errors.New("tmdb: retryable status")

// doWithRetry executes the request, retrying network errors, 429 and 5xx up
// to maxRetries times with exponential backoff. Every attempt waits on the
// shared rate limiter. Once attempts run out the last response is returned
// so the caller reports its status.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, path string) (*http.Response, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.retryDelay
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(p.maxRetries, 0))), ctx)

	var last *http.Response
	attempt := 0
	op := func() error {
		if last != nil {
			last.Body.Close()
			last = nil
		}
		attempt++
		if err := p.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		last = resp
		if !shouldRetry(resp) {
			return nil
		}
		return fmt.Errorf("%w: %d", errRetryableStatus, resp.StatusCode)
	}
	notify := func(err error, wait time.Duration) {
		p.log.WarnContext(ctx, "tmdb retry",
			slog.String("path", path),
			slog.String("reason", err.Error()),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
		)
	}

	err := backoff.RetryNotify(op, policy, notify)
	if err == nil || (errors.Is(err, errRetryableStatus) && last != nil) {
		return last, nil
	}
	if last != nil {
		last.Body.Close()
	}
	return nil, err
}

func shouldRetry(resp *http.Response) bool {
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func firstItem(results []apiResult, mediaType domain.MediaType) *provider.CatalogItem {
	for _, r := range results {
		if r.ID > 0 {
			return mapResult(r, mediaType)
		}
	}
	return nil
}

func bestMatch(results []apiResult, mediaType domain.MediaType, query provider.SearchQuery) *provider.CatalogItem {
	want := domain.NormalizeText(query.Title)

	var exact, top *apiResult
	for i := range results {
		r := &results[i]
		if r.ID <= 0 {
			continue
		}
		if top == nil {
			top = r
		}
		if domain.NormalizeText(r.displayTitle()) != want {
			continue
		}
		if query.Year > 0 && r.year() == query.Year {
			return mapResult(*r, mediaType)
		}
		if exact == nil {
			exact = r
		}
	}

	switch {
	case exact != nil:
		return mapResult(*exact, mediaType)
	case top != nil:
		return mapResult(*top, mediaType)
	default:
		return nil
	}
}

func (r apiResult) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r apiResult) date() *time.Time {
	raw := r.ReleaseDate
	if raw == "" {
		raw = r.FirstAirDate
	}
	if raw == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &d
}

func (r apiResult) year() int {
	if d := r.date(); d != nil {
		return d.Year()
	}
	return 0
}

func mapResult(r apiResult, mediaType domain.MediaType) *provider.CatalogItem {
	item := &provider.CatalogItem{
		ExternalID:   r.ID,
		MediaType:    mediaType,
		Title:        r.displayTitle(),
		ReleaseDate:  r.date(),
		PosterPath:   optString(r.PosterPath),
		BackdropPath: optString(r.BackdropPath),
		Overview:     optString(r.Overview),
		Genres:       []string{},
		Creators:     []string{},
	}
	if r.VoteAverage > 0 {
		v := r.VoteAverage
		item.Rating = &v
	}
	return item
}

func mapDetails(d apiDetails, mediaType domain.MediaType) *provider.CatalogItem {
	item := mapResult(d.apiResult, mediaType)

	imdbID := d.IMDbID
	if imdbID == "" && d.ExternalIDs != nil {
		imdbID = d.ExternalIDs.IMDbID
	}
	item.IMDbID = optString(imdbID)

	for _, g := range d.Genres {
		if g.Name != "" {
			item.Genres = append(item.Genres, g.Name)
		}
	}
	for _, c := range d.CreatedBy {
		if c.Name != "" {
			item.Creators = append(item.Creators, c.Name)
		}
	}

	runtime := d.Runtime
	if runtime == 0 && len(d.EpisodeRunTime) > 0 {
		runtime = d.EpisodeRunTime[0]
	}
	if runtime > 0 {
		item.Runtime = &runtime
	}
	return item
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
