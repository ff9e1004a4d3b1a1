package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist"
)

const (
	importFileField = "file"
	dateLayout      = "2006-01-02"
)

type watchlistService interface {
	ImportEntries(ctx context.Context, input watchlist.ImportInput) (*watchlist.ImportResult, error)
	PreviewImport(ctx context.Context, input watchlist.PreviewInput) (*watchlist.PreviewResult, error)
	ExportEntries(ctx context.Context) (*watchlist.ExportResult, error)
	UpdateEntry(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.WatchlistEntry, error)
	MoveEntry(ctx context.Context, input watchlist.MoveInput) (*watchlist.MoveOutcome, error)
	ListEntries(ctx context.Context, input watchlist.ListInput) (*watchlist.ListResult, error)
	AddEntry(ctx context.Context, input watchlist.AddEntryInput) (*domain.WatchlistEntry, bool, error)
	RemoveEntry(ctx context.Context, input watchlist.RemoveEntryInput) error
	GetStatus(ctx context.Context, input watchlist.StatusInput) (*watchlist.StatusResult, error)
}

// WatchlistHandler serves the watchlist REST endpoints.
type WatchlistHandler struct {
	svc            watchlistService
	validator      *requestValidator
	maxUploadBytes int64
	log            *slog.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(svc watchlistService, maxUploadBytes int64, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		svc:            svc,
		validator:      newRequestValidator(),
		maxUploadBytes: maxUploadBytes,
		log:            logger.With("handler", "watchlist"),
	}
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

type entryResponse struct {
	ID           uuid.UUID `json:"id"`
	ExternalID   int       `json:"externalId"`
	MediaType    string    `json:"mediaType"`
	Title        string    `json:"title"`
	PosterPath   *string   `json:"posterPath,omitempty"`
	BackdropPath *string   `json:"backdropPath,omitempty"`
	ReleaseDate  *string   `json:"releaseDate,omitempty"`
	FirstAirDate *string   `json:"firstAirDate,omitempty"`
	IMDbID       *string   `json:"imdbId,omitempty"`
	Overview     *string   `json:"overview,omitempty"`
	Genres       []string  `json:"genres"`
	Creators     []string  `json:"creators"`
	Runtime      *int      `json:"runtime,omitempty"`
	Rating       *float64  `json:"rating,omitempty"`
	Note         *string   `json:"note,omitempty"`
	Order        int       `json:"order"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toEntryResponse(e *domain.WatchlistEntry) entryResponse {
	genres, creators := e.Genres, e.Creators
	if genres == nil {
		genres = []string{}
	}
	if creators == nil {
		creators = []string{}
	}
	return entryResponse{
		ID:           e.ID,
		ExternalID:   e.ExternalID,
		MediaType:    e.MediaType.String(),
		Title:        e.Title,
		PosterPath:   e.PosterPath,
		BackdropPath: e.BackdropPath,
		ReleaseDate:  formatDate(e.ReleaseDate),
		FirstAirDate: formatDate(e.FirstAirDate),
		IMDbID:       e.IMDbID,
		Overview:     e.Overview,
		Genres:       genres,
		Creators:     creators,
		Runtime:      e.Runtime,
		Rating:       e.Rating,
		Note:         e.Note,
		Order:        e.Order,
		URL:          e.CatalogURL(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

type rowErrorResponse struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type rowWarningResponse struct {
	Row     int    `json:"row"`
	Warning string `json:"warning"`
}

type importResponse struct {
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Errors   []rowErrorResponse   `json:"errors"`
	Warnings []rowWarningResponse `json:"warnings"`
	Source   string               `json:"source"`
}

// ---------------------------------------------------------------------------
// 1. Import
// ---------------------------------------------------------------------------

// Import handles POST /api/watchlist/import.
func (h *WatchlistHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	policy := domain.DuplicatePolicy(strings.ToLower(strings.TrimSpace(r.FormValue("duplicateAction"))))
	if policy == "" {
		policy = domain.DuplicatePolicySkip
	}

	result, err := h.svc.ImportEntries(r.Context(), watchlist.ImportInput{
		Data:            data,
		DuplicatePolicy: policy,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := importResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errors:   make([]rowErrorResponse, 0, len(result.Errors)),
		Warnings: make([]rowWarningResponse, 0, len(result.Warnings)),
		Source:   string(result.Source),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, rowErrorResponse{Row: e.Row, Error: e.Error})
	}
	for _, wr := range result.Warnings {
		resp.Warnings = append(resp.Warnings, rowWarningResponse{Row: wr.Row, Warning: wr.Warning})
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// 2. Preview
// ---------------------------------------------------------------------------

// Preview handles POST /api/watchlist/import/preview.
func (h *WatchlistHandler) Preview(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, err := h.svc.PreviewImport(r.Context(), watchlist.PreviewInput{Data: data})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source":     result.Source,
		"mapping":    result.Mapping,
		"validation": result.Validation,
		"totalRows":  result.TotalRows,
	})
}

// readUpload reads the multipart file field, bounded by maxUploadBytes.
// It writes the error response itself and reports whether to continue.
func (h *WatchlistHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return nil, false
	}

	file, _, err := r.FormFile(importFileField)
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError(importFileField, "required"))
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(h.log, w, r, fmt.Errorf("read upload: %w", err))
		return nil, false
	}
	return data, true
}

// ---------------------------------------------------------------------------
// 3. Export
// ---------------------------------------------------------------------------

// Export handles GET /api/watchlist/export.
func (h *WatchlistHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ExportEntries(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("watchlist-%s.csv", time.Now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Entry-Count", strconv.Itoa(result.Count))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data) //nolint:errcheck
}

// ---------------------------------------------------------------------------
// 4. Update item
// ---------------------------------------------------------------------------

type updateItemRequest struct {
	ItemID  string `json:"itemId" validate:"required,uuid"`
	Updates struct {
		Order *int    `json:"order" validate:"omitempty,gte=0"`
		Note  *string `json:"note" validate:"omitempty,max=2000"`
	} `json:"updates"`
}

// UpdateItem handles PATCH /api/watchlist/items.
func (h *WatchlistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.svc.UpdateEntry(r.Context(), watchlist.UpdateEntryInput{
		EntryID: uuid.MustParse(req.ItemID),
		Order:   req.Updates.Order,
		Note:    req.Updates.Note,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// ---------------------------------------------------------------------------
// 5. Move
// ---------------------------------------------------------------------------

type moveRequest struct {
	EntryID    string   `json:"entryId" validate:"required,uuid"`
	FromIndex  int      `json:"fromIndex" validate:"gte=0"`
	ToIndex    int      `json:"toIndex" validate:"gte=0"`
	VisibleIDs []string `json:"visibleIds" validate:"dive,uuid"`
	Sort       string   `json:"sort" validate:"omitempty,oneof=list title release_date created_at"`
}

type moveResponse struct {
	Applied bool `json:"applied"`
	Changed int  `json:"changed"`
}

// Move handles POST /api/watchlist/move.
func (h *WatchlistHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !h.decode(w, r, &req) {
		return
	}

	visible := make([]uuid.UUID, 0, len(req.VisibleIDs))
	for _, id := range req.VisibleIDs {
		visible = append(visible, uuid.MustParse(id))
	}

	outcome, err := h.svc.MoveEntry(r.Context(), watchlist.MoveInput{
		EntryID:    uuid.MustParse(req.EntryID),
		FromIndex:  req.FromIndex,
		ToIndex:    req.ToIndex,
		VisibleIDs: visible,
		Sort:       domain.ListSort(req.Sort),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, moveResponse{Applied: outcome.Applied, Changed: outcome.Changed})
}

// ---------------------------------------------------------------------------
// 6. List
// ---------------------------------------------------------------------------

type listResponse struct {
	Items      []entryResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
	HasMore    bool            `json:"hasMore"`
}

// List handles GET /api/watchlist.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := watchlist.ListInput{
		SortBy:    domain.ListSort(q.Get("sort")),
		SortOrder: q.Get("order"),
	}
	if v := q.Get("mediaType"); v != "" {
		mt := domain.MediaType(v)
		input.MediaType = &mt
	}
	if v := strings.TrimSpace(q.Get("search")); v != "" {
		input.Search = &v
	}

	var fieldErrs []domain.FieldError
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "limit", Message: "must be an integer"})
		}
		input.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "offset", Message: "must be an integer"})
		}
		input.Offset = n
	}
	if len(fieldErrs) > 0 {
		handleError(h.log, w, r, domain.NewValidationErrors(fieldErrs))
		return
	}

	result, err := h.svc.ListEntries(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listResponse{
		Items:      make([]entryResponse, 0, len(result.Entries)),
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	}
	for i := range result.Entries {
		resp.Items = append(resp.Items, toEntryResponse(&result.Entries[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// 7. Add
// ---------------------------------------------------------------------------

type addEntryRequest struct {
	ExternalID   int     `json:"externalId" validate:"required,gt=0"`
	MediaType    string  `json:"mediaType" validate:"required,oneof=movie tv"`
	Title        string  `json:"title" validate:"required,max=500"`
	PosterPath   *string `json:"posterPath"`
	BackdropPath *string `json:"backdropPath"`
	ReleaseDate  *string `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	Note         *string `json:"note" validate:"omitempty,max=2000"`
}

// Add handles POST /api/watchlist. It answers 201 when the entry was
// created and 200 when it was already on the list.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := watchlist.AddEntryInput{
		ExternalID:   req.ExternalID,
		MediaType:    domain.MediaType(req.MediaType),
		Title:        req.Title,
		PosterPath:   req.PosterPath,
		BackdropPath: req.BackdropPath,
		Note:         req.Note,
	}
	if req.ReleaseDate != nil {
		d, _ := time.Parse(dateLayout, *req.ReleaseDate)
		input.ReleaseDate = &d
	}

	entry, created, err := h.svc.AddEntry(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toEntryResponse(entry))
}

// ---------------------------------------------------------------------------
// 8. Remove
// ---------------------------------------------------------------------------

// Remove handles DELETE /api/watchlist/{id}.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("id", "must be a valid UUID"))
		return
	}

	if err := h.svc.RemoveEntry(r.Context(), watchlist.RemoveEntryInput{EntryID: id}); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// 9. Status
// ---------------------------------------------------------------------------

type statusResponse struct {
	InWatchlist bool           `json:"inWatchlist"`
	Entry       *entryResponse `json:"entry,omitempty"`
}

// Status handles GET /api/watchlist/status.
func (h *WatchlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	externalID, err := strconv.Atoi(q.Get("externalId"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("externalId", "must be an integer"))
		return
	}

	result, err := h.svc.GetStatus(r.Context(), watchlist.StatusInput{
		ExternalID: externalID,
		MediaType:  domain.MediaType(q.Get("mediaType")),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := statusResponse{InWatchlist: result.InWatchlist}
	if result.Entry != nil {
		e := toEntryResponse(result.Entry)
		resp.Entry = &e
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether to continue.
func (h *WatchlistHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validator.validate(dst); err != nil {
		handleError(h.log, w, r, err)
		return false
	}
	return true
}
