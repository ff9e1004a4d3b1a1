package watchlist

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/provider"
)

// resolveCandidate finds the catalog id of a row. It tries, in order, the id
// the row already carries (external id column or TMDB URL), the IMDb id, and
// a title search. It reports false when nothing matched. Only context errors
// are returned; catalog failures count as "not matched".
func (s *Service) resolveCandidate(ctx context.Context, c *csvimport.Candidate) (bool, error) {
	if c.ExternalID > 0 {
		return true, nil
	}
	if s.catalog == nil {
		return false, nil
	}

	if c.IMDbID != "" {
		item, err := s.catalog.FindByIMDbID(ctx, c.IMDbID, c.MediaType)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			s.log.WarnContext(ctx, "imdb lookup failed",
				slog.Int("row", c.Line),
				slog.String("imdb_id", c.IMDbID),
				slog.String("error", err.Error()),
			)
		}
		if item != nil {
			applyCatalogMatch(c, item)
			return true, nil
		}
	}

	types := []domain.MediaType{c.MediaType}
	if !c.MediaTypeKnown {
		types = []domain.MediaType{domain.MediaTypeMovie, domain.MediaTypeTV}
	}

	for _, mt := range types {
		item, err := s.catalog.Search(ctx, provider.SearchQuery{
			Title:     c.Title,
			MediaType: mt,
			Year:      c.Year,
		})
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			s.log.WarnContext(ctx, "title search failed",
				slog.Int("row", c.Line),
				slog.String("title", c.Title),
				slog.String("error", err.Error()),
			)
			continue
		}
		if item != nil {
			applyCatalogMatch(c, item)
			return true, nil
		}
	}

	return false, nil
}

// applyCatalogMatch copies the catalog identity onto the candidate and fills
// the fields the row left empty.
func applyCatalogMatch(c *csvimport.Candidate, item *provider.CatalogItem) {
	c.ExternalID = item.ExternalID
	if item.MediaType.IsValid() && item.MediaType != c.MediaType {
		setMediaType(c, item.MediaType)
	}
	c.MediaTypeKnown = true
	fillFromDetails(c, item)
}

// setMediaType changes the type and moves the known date to the matching field.
func setMediaType(c *csvimport.Candidate, mt domain.MediaType) {
	c.MediaType = mt
	if mt == domain.MediaTypeTV {
		if c.FirstAirDate == nil {
			c.FirstAirDate = c.ReleaseDate
		}
		c.ReleaseDate = nil
		return
	}
	if c.ReleaseDate == nil {
		c.ReleaseDate = c.FirstAirDate
	}
	c.FirstAirDate = nil
}
