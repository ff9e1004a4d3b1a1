package csvimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

func firstCandidate(t *testing.T, data string) Candidate {
	t.Helper()
	doc, m := parseAndMap(t, data)
	return BuildCandidate(doc.Rows[0], m)
}

func TestBuildCandidate_Generic(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,Type,Year\nInception,movie,2010\n")

	assert.Equal(t, 2, c.Line)
	assert.Equal(t, "Inception", c.Title)
	assert.Equal(t, domain.MediaTypeMovie, c.MediaType)
	assert.True(t, c.MediaTypeKnown)
	assert.Equal(t, 2010, c.Year)
	assert.Zero(t, c.ExternalID)
	assert.Zero(t, c.Order)
}

func TestBuildCandidate_DefaultsToMovie(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,Type\nCats,musical\n")
	assert.Equal(t, domain.MediaTypeMovie, c.MediaType)
	assert.False(t, c.MediaTypeKnown)
}

func TestBuildCandidate_CatalogURL(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,URL\nBreaking Bad,https://www.themoviedb.org/tv/1396-breaking-bad\n")
	assert.Equal(t, 1396, c.ExternalID)
	assert.Equal(t, domain.MediaTypeTV, c.MediaType)
	assert.True(t, c.MediaTypeKnown)
}

func TestBuildCandidate_ExternalIDColumnWins(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,TMDB ID,URL\nAlien,348,https://www.themoviedb.org/movie/999\n")
	assert.Equal(t, 348, c.ExternalID)
}

func TestBuildCandidate_IMDb(t *testing.T) {
	t.Parallel()

	data := "Position,Const,Created,Modified,Description,Title,URL,Title Type,IMDb Rating,Runtime (mins),Year,Genres,Num Votes,Release Date,Directors\n" +
		"1,tt1375666,2023-01-05,2023-01-05,rewatch,Inception,https://www.imdb.com/title/tt1375666/,Movie,8.8,148,2010,\"Action, Sci-Fi\",2500000,2010-07-16,Christopher Nolan\n"
	doc, m := parseAndMap(t, data)
	c := BuildCandidate(doc.Rows[0], m)

	assert.Equal(t, "tt1375666", c.IMDbID)
	assert.Equal(t, 1, c.Order)
	assert.Equal(t, "rewatch", c.Note)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, c.Genres)
	assert.Equal(t, []string{"Christopher Nolan"}, c.Creators)
	require.NotNil(t, c.Runtime)
	assert.Equal(t, 148, *c.Runtime)
	require.NotNil(t, c.Rating)
	assert.InDelta(t, 8.8, *c.Rating, 0.001)
	require.NotNil(t, c.ReleaseDate)
	assert.Equal(t, time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), *c.ReleaseDate)
	require.NotNil(t, c.CreatedAt)
}

func TestBuildCandidate_TVDateGoesToFirstAirDate(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,Type,Release Date\nBreaking Bad,tv,2008-01-20\n")
	assert.Nil(t, c.ReleaseDate)
	require.NotNil(t, c.FirstAirDate)
	assert.Equal(t, 2008, c.Year)
}

func TestBuildCandidate_BadValuesDropped(t *testing.T) {
	t.Parallel()

	c := firstCandidate(t, "Title,Type,Release Date,Runtime,Rating,Order\nAlien,movie,soon,long,great,first\n")
	assert.Nil(t, c.ReleaseDate)
	assert.Nil(t, c.Runtime)
	assert.Nil(t, c.Rating)
	assert.Zero(t, c.Order)
	assert.Zero(t, c.Year)
}

func TestParseCatalogURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		wantMT domain.MediaType
		wantID int
		wantOK bool
	}{
		{"https://www.themoviedb.org/movie/27205", domain.MediaTypeMovie, 27205, true},
		{"https://www.themoviedb.org/movie/27205-inception?language=en", domain.MediaTypeMovie, 27205, true},
		{"themoviedb.org/tv/1396", domain.MediaTypeTV, 1396, true},
		{"https://www.themoviedb.org/person/525", "", 0, false},
		{"https://www.imdb.com/title/tt1375666/", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			mt, id, ok := ParseCatalogURL(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMT, mt)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2010-07-16", time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), true},
		{"2023-01-05T10:00:00Z", time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC), true},
		{"07/16/2010", time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), true},
		{"Jul 16, 2010", time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC), true},
		{"2010", time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
