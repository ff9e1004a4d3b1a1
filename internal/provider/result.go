package provider

import (
	"time"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// CatalogItem is one movie or TV series as returned by an external catalog.
type CatalogItem struct {
	ExternalID   int
	MediaType    domain.MediaType
	Title        string
	ReleaseDate  *time.Time
	PosterPath   *string
	BackdropPath *string
	Overview     *string
	IMDbID       *string
	Genres       []string
	Creators     []string
	Runtime      *int
	Rating       *float64
}

// SearchQuery describes a title lookup. Year is 0 when unknown.
type SearchQuery struct {
	Title     string
	MediaType domain.MediaType
	Year      int
}
