package csvimport

import (
	"time"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// Candidate is one row translated into typed watchlist fields. ExternalID is
// 0 when the row carries no catalog id; the importer resolves it.
type Candidate struct {
	Line           int
	Title          string
	MediaType      domain.MediaType
	MediaTypeKnown bool
	ExternalID     int
	IMDbID         string
	Year           int
	ReleaseDate    *time.Time
	FirstAirDate   *time.Time
	PosterPath     string
	BackdropPath   string
	Overview       string
	Note           string
	Genres         []string
	Creators       []string
	Runtime        *int
	Rating         *float64
	Order          int
	CreatedAt      *time.Time
}

// BuildCandidate reads the mapped fields of a row. Malformed optional values
// are dropped; the validator has already reported them.
func BuildCandidate(row Row, m Mapping) Candidate {
	c := Candidate{
		Line:         row.Line,
		Title:        m.Value(row, FieldTitle),
		MediaType:    domain.MediaTypeMovie,
		PosterPath:   m.Value(row, FieldPosterPath),
		BackdropPath: m.Value(row, FieldBackdropPath),
		Overview:     m.Value(row, FieldOverview),
		Note:         m.Value(row, FieldNote),
		Genres:       splitList(m.Value(row, FieldGenres)),
		Creators:     splitList(m.Value(row, FieldCreators)),
	}

	if mt, ok := domain.ParseMediaType(m.Value(row, FieldMediaType)); ok {
		c.MediaType = mt
		c.MediaTypeKnown = true
	}

	if id, ok := parsePositiveInt(m.Value(row, FieldExternalID)); ok {
		c.ExternalID = id
	}
	if mt, id, ok := ParseCatalogURL(m.Value(row, FieldURL)); ok {
		if c.ExternalID == 0 {
			c.ExternalID = id
		}
		if !c.MediaTypeKnown {
			c.MediaType = mt
			c.MediaTypeKnown = true
		}
	}

	if id, ok := ParseIMDbID(m.Value(row, FieldIMDbID)); ok {
		c.IMDbID = id
	} else if id, ok := ParseIMDbID(m.Value(row, FieldURL)); ok {
		c.IMDbID = id
	}

	// Single-date exports carry the first air date in the release column.
	released := parseDatePtr(m.Value(row, FieldReleaseDate))
	firstAir := parseDatePtr(m.Value(row, FieldFirstAirDate))
	if c.MediaType == domain.MediaTypeTV {
		if firstAir == nil {
			firstAir = released
		}
		c.FirstAirDate = firstAir
	} else {
		c.ReleaseDate = released
	}

	if y, ok := parseYear(m.Value(row, FieldYear)); ok {
		c.Year = y
	} else if d := c.airDate(); d != nil {
		c.Year = d.Year()
	}

	if n, ok := parsePositiveInt(m.Value(row, FieldRuntime)); ok {
		c.Runtime = &n
	}
	if f, ok := parseFloat(m.Value(row, FieldRating)); ok {
		c.Rating = &f
	}
	if n, ok := parsePositiveInt(m.Value(row, FieldOrder)); ok {
		c.Order = n
	}
	c.CreatedAt = parseDatePtr(m.Value(row, FieldCreatedAt))

	return c
}

func (c *Candidate) airDate() *time.Time {
	if c.MediaType == domain.MediaTypeTV {
		return c.FirstAirDate
	}
	return c.ReleaseDate
}

// Key returns the dedup key once the external id is known.
func (c *Candidate) Key() domain.EntryKey {
	return domain.EntryKey{ExternalID: c.ExternalID, MediaType: c.MediaType}
}

func parseDatePtr(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}
