package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist/ordering"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

const (
	errMissingTitle      = "missing title"
	errUnresolved        = "could not resolve catalog item"
	errConflictExhausted = "write conflict: retries exhausted"
	errSaveFailed        = "could not save entry"
)

// ---------------------------------------------------------------------------
// 1. ImportEntries
// ---------------------------------------------------------------------------

// ImportEntries reconciles a CSV file with the owner's watchlist. The file is
// validated as a whole first; after that every row is written in its own
// transaction and row failures are reported without stopping the import.
func (s *Service) ImportEntries(ctx context.Context, input ImportInput) (*ImportResult, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	a, err := s.analyze(input.Data)
	if err != nil {
		return nil, err
	}
	if !a.validation.IsValid {
		return nil, validationError(a.validation)
	}

	release, ok := s.lockImport(userID)
	if !ok {
		return nil, fmt.Errorf("import already in progress: %w", domain.ErrConflict)
	}
	defer release()

	existing, err := s.entries.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	r := &importRun{
		svc:    s,
		userID: userID,
		policy: input.DuplicatePolicy,
		index:  make(map[domain.EntryKey]domain.WatchlistEntry, len(existing)),
		result: &ImportResult{
			Source:   a.source,
			Errors:   []RowError{},
			Warnings: make([]RowWarning, 0, len(a.validation.Warnings)),
		},
	}
	for _, e := range existing {
		r.index[e.Key()] = e
		r.baseOrder = max(r.baseOrder, e.Order)
	}
	for _, w := range a.validation.Warnings {
		r.result.addWarning(w.Row, w.Message)
	}

	candidates, err := r.resolve(ctx, a.doc, a.mapping)
	if err != nil {
		return nil, err
	}

	s.enrichCandidates(ctx, r.needingArtwork(candidates), r.result)

	if err := r.write(ctx, candidates); err != nil {
		return nil, err
	}

	if r.inserted > 0 {
		if err := s.normalizeOrder(ctx, userID); err != nil {
			return nil, fmt.Errorf("normalize order: %w", err)
		}
	}

	s.log.InfoContext(ctx, "watchlist imported",
		slog.String("user_id", userID.String()),
		slog.String("source", string(a.source)),
		slog.Int("rows", len(a.doc.Rows)),
		slog.Int("imported", r.result.Imported),
		slog.Int("skipped", r.result.Skipped),
		slog.Int("errors", len(r.result.Errors)),
	)

	return r.result, nil
}

// importRun holds the state of one import.
type importRun struct {
	svc    *Service
	userID uuid.UUID
	policy domain.DuplicatePolicy

	// index holds existing entries and those written by this run.
	index map[domain.EntryKey]domain.WatchlistEntry
	// Inserted rows are numbered baseOrder+1, baseOrder+2, ... in file order.
	baseOrder int
	inserted  int

	result *ImportResult
}

// resolve builds candidates in file order and resolves their catalog ids.
// Rows that fail here are recorded as row errors.
func (r *importRun) resolve(ctx context.Context, doc *csvimport.Document, m csvimport.Mapping) ([]*csvimport.Candidate, error) {
	out := make([]*csvimport.Candidate, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		c := csvimport.BuildCandidate(row, m)
		if strings.TrimSpace(c.Title) == "" {
			r.result.addError(c.Line, errMissingTitle)
			continue
		}

		found, err := r.svc.resolveCandidate(ctx, &c)
		if err != nil {
			return nil, err
		}
		if !found {
			r.result.addError(c.Line, errUnresolved)
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

// needingArtwork returns the candidates that will be inserted without a poster.
func (r *importRun) needingArtwork(candidates []*csvimport.Candidate) []*csvimport.Candidate {
	var out []*csvimport.Candidate
	for _, c := range candidates {
		if _, dup := r.index[c.Key()]; dup {
			continue
		}
		if c.PosterPath == "" {
			out = append(out, c)
		}
	}
	return out
}

// write commits the candidates one by one in file order.
func (r *importRun) write(ctx context.Context, candidates []*csvimport.Candidate) error {
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cur, dup := r.index[c.Key()]; dup {
			if err := r.handleDuplicate(ctx, c, cur); err != nil {
				return err
			}
			continue
		}

		if err := r.insert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// insert creates a new entry placed after everything already on the list.
// A unique violation means another writer added the item meanwhile: the
// stored entry is re-read and handled as a duplicate. If that writer has
// since removed it again, the insert is tried once more.
func (r *importRun) insert(ctx context.Context, c *csvimport.Candidate) error {
	entry := newEntry(r.userID, c, r.baseOrder+r.inserted+1)

	for attempt := 1; ; attempt++ {
		var created domain.WatchlistEntry
		err := r.svc.writeWithRetry(ctx, func(ctx context.Context) error {
			var err error
			created, err = r.svc.entries.Create(ctx, &entry)
			return err
		})

		switch {
		case err == nil:
			r.index[created.Key()] = created
			r.result.Imported++
			r.inserted++
			return nil

		case errors.Is(err, domain.ErrAlreadyExists):
			cur, getErr := r.svc.entries.GetByKey(ctx, r.userID, c.Key())
			if errors.Is(getErr, domain.ErrNotFound) && attempt == 1 {
				continue
			}
			if getErr != nil {
				return r.rowFailure(ctx, c, getErr)
			}
			r.index[cur.Key()] = cur
			return r.handleDuplicate(ctx, c, cur)

		default:
			return r.rowFailure(ctx, c, err)
		}
	}
}

// handleDuplicate applies the duplicate policy to a row whose item is
// already on the watchlist.
func (r *importRun) handleDuplicate(ctx context.Context, c *csvimport.Candidate, cur domain.WatchlistEntry) error {
	if r.policy != domain.DuplicatePolicyUpdate {
		r.result.Skipped++
		return nil
	}

	merged := mergeCandidate(cur, c)

	var updated domain.WatchlistEntry
	err := r.svc.writeWithRetry(ctx, func(ctx context.Context) error {
		var err error
		updated, err = r.svc.entries.Update(ctx, &merged)
		return err
	})
	if err != nil {
		return r.rowFailure(ctx, c, err)
	}

	r.index[updated.Key()] = updated
	r.result.Imported++
	return nil
}

// rowFailure records a failed row write. Only a cancelled context aborts the
// import.
func (r *importRun) rowFailure(ctx context.Context, c *csvimport.Candidate, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	msg := errSaveFailed
	if errors.Is(err, domain.ErrConflict) {
		msg = errConflictExhausted
	}
	r.result.addError(c.Line, msg)

	r.svc.log.WarnContext(ctx, "import row failed",
		slog.String("user_id", r.userID.String()),
		slog.Int("row", c.Line),
		slog.String("item", c.Key().String()),
		slog.String("error", err.Error()),
	)
	return nil
}

// normalizeOrder renumbers the owner's ordered entries to 1..k.
func (s *Service) normalizeOrder(ctx context.Context, userID uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.entries.LockOwner(ctx, userID); err != nil {
			return err
		}
		keys, err := s.entries.ListOrderKeys(ctx, userID)
		if err != nil {
			return err
		}
		return s.entries.UpdateOrders(ctx, userID, ordering.Normalize(keys))
	})
}

// ---------------------------------------------------------------------------
// Entry construction
// ---------------------------------------------------------------------------

// newEntry builds a watchlist entry from a resolved candidate.
func newEntry(userID uuid.UUID, c *csvimport.Candidate, order int) domain.WatchlistEntry {
	now := time.Now().UTC()
	createdAt := now
	if c.CreatedAt != nil {
		createdAt = c.CreatedAt.UTC()
	}

	return domain.WatchlistEntry{
		ID:           uuid.New(),
		UserID:       userID,
		ExternalID:   c.ExternalID,
		MediaType:    c.MediaType,
		Title:        strings.TrimSpace(c.Title),
		PosterPath:   strPtrOrNil(c.PosterPath),
		BackdropPath: strPtrOrNil(c.BackdropPath),
		ReleaseDate:  c.ReleaseDate,
		FirstAirDate: c.FirstAirDate,
		IMDbID:       strPtrOrNil(c.IMDbID),
		Overview:     strPtrOrNil(c.Overview),
		Genres:       nonNilStrings(c.Genres),
		Creators:     nonNilStrings(c.Creators),
		Runtime:      c.Runtime,
		Rating:       c.Rating,
		Note:         strPtrOrNil(c.Note),
		Order:        order,
		CreatedAt:    createdAt,
		UpdatedAt:    now,
	}
}

// mergeCandidate overwrites the fields of cur that the row provides. Empty
// row values never clear stored data, and the list position is kept.
func mergeCandidate(cur domain.WatchlistEntry, c *csvimport.Candidate) domain.WatchlistEntry {
	if t := strings.TrimSpace(c.Title); t != "" {
		cur.Title = t
	}
	if c.PosterPath != "" {
		cur.PosterPath = &c.PosterPath
	}
	if c.BackdropPath != "" {
		cur.BackdropPath = &c.BackdropPath
	}
	if c.ReleaseDate != nil {
		cur.ReleaseDate = c.ReleaseDate
	}
	if c.FirstAirDate != nil {
		cur.FirstAirDate = c.FirstAirDate
	}
	if c.IMDbID != "" {
		cur.IMDbID = &c.IMDbID
	}
	if c.Overview != "" {
		cur.Overview = &c.Overview
	}
	if len(c.Genres) > 0 {
		cur.Genres = c.Genres
	}
	if len(c.Creators) > 0 {
		cur.Creators = c.Creators
	}
	if c.Runtime != nil {
		cur.Runtime = c.Runtime
	}
	if c.Rating != nil {
		cur.Rating = c.Rating
	}
	if c.Note != "" {
		cur.Note = &c.Note
	}
	return cur
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
