package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogBaseURL is the public TMDB site used for entry links.
const CatalogBaseURL = "https://www.themoviedb.org"

// WatchlistEntry is one movie or TV series on an owner's watchlist.
type WatchlistEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ExternalID   int
	MediaType    MediaType
	Title        string
	PosterPath   *string
	BackdropPath *string
	ReleaseDate  *time.Time
	FirstAirDate *time.Time
	IMDbID       *string
	Overview     *string
	Genres       []string
	Creators     []string
	Runtime      *int
	Rating       *float64
	Note         *string
	Order        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryKey identifies a catalog item within one owner's watchlist.
type EntryKey struct {
	ExternalID int
	MediaType  MediaType
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%s/%d", k.MediaType, k.ExternalID)
}

// Key returns the dedup key of the entry.
func (e *WatchlistEntry) Key() EntryKey {
	return EntryKey{ExternalID: e.ExternalID, MediaType: e.MediaType}
}

// IsOrdered reports whether the entry has a position in the ordered list.
func (e *WatchlistEntry) IsOrdered() bool {
	return e.Order > 0
}

// AirDate returns the date relevant to the media type.
func (e *WatchlistEntry) AirDate() *time.Time {
	if e.MediaType == MediaTypeTV {
		return e.FirstAirDate
	}
	return e.ReleaseDate
}

// Year returns the release year, or 0 when no date is known.
func (e *WatchlistEntry) Year() int {
	if d := e.AirDate(); d != nil {
		return d.Year()
	}
	return 0
}

// CatalogURL returns the public catalog page of the entry.
func (e *WatchlistEntry) CatalogURL() string {
	return fmt.Sprintf("%s/%s/%d", CatalogBaseURL, e.MediaType, e.ExternalID)
}

// OrderKey projects the entry for the reorder engine.
func (e *WatchlistEntry) OrderKey() OrderKey {
	return OrderKey{ID: e.ID, Order: e.Order, CreatedAt: e.CreatedAt}
}
