package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 6. AddEntry
// ---------------------------------------------------------------------------

// AddEntry puts a catalog item on the watchlist, unordered. Adding an item
// that is already there returns the stored entry and created=false.
func (s *Service) AddEntry(ctx context.Context, input AddEntryInput) (*domain.WatchlistEntry, bool, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, false, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, false, err
	}

	key := domain.EntryKey{ExternalID: input.ExternalID, MediaType: input.MediaType}

	cur, err := s.entries.GetByKey(ctx, userID, key)
	if err == nil {
		return &cur, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get entry: %w", err)
	}

	entry := s.entryFromInput(ctx, userID, input)

	var created domain.WatchlistEntry
	err = s.writeWithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.entries.Create(ctx, &entry)
		return err
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		cur, getErr := s.entries.GetByKey(ctx, userID, key)
		if getErr != nil {
			return nil, false, fmt.Errorf("get entry: %w", getErr)
		}
		return &cur, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create entry: %w", err)
	}

	s.log.InfoContext(ctx, "watchlist entry added",
		slog.String("user_id", userID.String()),
		slog.String("item", key.String()),
	)

	return &created, true, nil
}

// entryFromInput builds the new entry and, when the client sent no artwork,
// fills metadata from the catalog on a best-effort basis.
func (s *Service) entryFromInput(ctx context.Context, userID uuid.UUID, input AddEntryInput) domain.WatchlistEntry {
	now := time.Now().UTC()
	e := domain.WatchlistEntry{
		ID:           uuid.New(),
		UserID:       userID,
		ExternalID:   input.ExternalID,
		MediaType:    input.MediaType,
		Title:        strings.TrimSpace(input.Title),
		PosterPath:   input.PosterPath,
		BackdropPath: input.BackdropPath,
		Genres:       []string{},
		Creators:     []string{},
		Note:         input.Note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.MediaType == domain.MediaTypeTV {
		e.FirstAirDate = input.ReleaseDate
	} else {
		e.ReleaseDate = input.ReleaseDate
	}

	if s.catalog == nil || e.PosterPath != nil {
		return e
	}

	item, err := s.catalog.GetDetails(ctx, input.MediaType, input.ExternalID)
	if err != nil || item == nil {
		if err != nil {
			s.log.WarnContext(ctx, "catalog details failed",
				slog.String("item", e.Key().String()),
				slog.String("error", err.Error()),
			)
		}
		return e
	}

	e.PosterPath = item.PosterPath
	if e.BackdropPath == nil {
		e.BackdropPath = item.BackdropPath
	}
	e.Overview = item.Overview
	e.IMDbID = item.IMDbID
	e.Runtime = item.Runtime
	e.Rating = item.Rating
	if len(item.Genres) > 0 {
		e.Genres = item.Genres
	}
	if len(item.Creators) > 0 {
		e.Creators = item.Creators
	}
	if e.AirDate() == nil && item.ReleaseDate != nil {
		d := *item.ReleaseDate
		if e.MediaType == domain.MediaTypeTV {
			e.FirstAirDate = &d
		} else {
			e.ReleaseDate = &d
		}
	}
	return e
}
