package watchlist

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/provider"
)

const (
	enrichWait           = 2 * time.Millisecond
	defaultEnrichBatch   = 50
	defaultEnrichWorkers = 4
)

// newDetailsLoader creates a per-import loader that batches catalog detail
// lookups. Identical keys are fetched once.
func (s *Service) newDetailsLoader() *dataloader.Loader[domain.EntryKey, *provider.CatalogItem] {
	batch := s.cfg.EnrichBatchSize
	if batch <= 0 {
		batch = defaultEnrichBatch
	}
	return dataloader.NewBatchedLoader(
		s.detailsBatchFn(),
		dataloader.WithWait[domain.EntryKey, *provider.CatalogItem](enrichWait),
		dataloader.WithBatchCapacity[domain.EntryKey, *provider.CatalogItem](batch),
	)
}

// detailsBatchFn fans a batch out to the catalog with bounded concurrency.
// A failed key does not cancel the others.
func (s *Service) detailsBatchFn() dataloader.BatchFunc[domain.EntryKey, *provider.CatalogItem] {
	workers := s.cfg.EnrichConcurrency
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}

	return func(ctx context.Context, keys []domain.EntryKey) []*dataloader.Result[*provider.CatalogItem] {
		results := make([]*dataloader.Result[*provider.CatalogItem], len(keys))

		var g errgroup.Group
		g.SetLimit(workers)
		for i, key := range keys {
			g.Go(func() error {
				item, err := s.catalog.GetDetails(ctx, key.MediaType, key.ExternalID)
				results[i] = &dataloader.Result[*provider.CatalogItem]{Data: item, Error: err}
				return nil
			})
		}
		_ = g.Wait()

		return results
	}
}

// enrichCandidates fills artwork and metadata of candidates that are about to
// be inserted without a poster. Failures only produce warnings.
func (s *Service) enrichCandidates(ctx context.Context, candidates []*csvimport.Candidate, result *ImportResult) {
	if s.catalog == nil || len(candidates) == 0 {
		return
	}

	loader := s.newDetailsLoader()
	thunks := make([]dataloader.Thunk[*provider.CatalogItem], len(candidates))
	for i, c := range candidates {
		thunks[i] = loader.Load(ctx, c.Key())
	}

	for i, c := range candidates {
		item, err := thunks[i]()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			result.addWarning(c.Line, "could not fetch artwork: "+err.Error())
			continue
		}
		if item == nil {
			result.addWarning(c.Line, "catalog item not found, imported without artwork")
			continue
		}
		fillFromDetails(c, item)
	}
}

// fillFromDetails copies catalog metadata into fields the row left empty.
func fillFromDetails(c *csvimport.Candidate, item *provider.CatalogItem) {
	if c.PosterPath == "" && item.PosterPath != nil {
		c.PosterPath = *item.PosterPath
	}
	if c.BackdropPath == "" && item.BackdropPath != nil {
		c.BackdropPath = *item.BackdropPath
	}
	if c.Overview == "" && item.Overview != nil {
		c.Overview = *item.Overview
	}
	if c.IMDbID == "" && item.IMDbID != nil {
		c.IMDbID = *item.IMDbID
	}
	if len(c.Genres) == 0 && len(item.Genres) > 0 {
		c.Genres = item.Genres
	}
	if len(c.Creators) == 0 && len(item.Creators) > 0 {
		c.Creators = item.Creators
	}
	if c.Runtime == nil && item.Runtime != nil {
		c.Runtime = item.Runtime
	}
	if c.Rating == nil && item.Rating != nil {
		c.Rating = item.Rating
	}
	if c.ReleaseDate == nil && c.FirstAirDate == nil && item.ReleaseDate != nil {
		d := *item.ReleaseDate
		if c.MediaType == domain.MediaTypeTV {
			c.FirstAirDate = &d
		} else {
			c.ReleaseDate = &d
		}
	}
}
