package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 02 2006",
	"2006",
}

// ParseDate accepts the date layouts seen in common exports.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 4 {
		// "2010-2014" style ranges use the first year.
		raw = raw[:4]
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1870 || y > 2200 {
		return 0, false
	}
	return y, true
}

func parsePositiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// splitList splits multi-valued cells on commas, pipes, or semicolons.
func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '|' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var catalogURLPattern = regexp.MustCompile(`themoviedb\.org/(movie|tv)/(\d+)`)

// ParseCatalogURL extracts the media type and id from a TMDB page URL.
func ParseCatalogURL(raw string) (domain.MediaType, int, bool) {
	m := catalogURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, false
	}
	id, err := strconv.Atoi(m[2])
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return domain.MediaType(m[1]), id, true
}

var imdbIDPattern = regexp.MustCompile(`\btt\d{5,}\b`)

// ParseIMDbID returns the first IMDb title id found in raw, which may be a
// bare id or an imdb.com URL.
func ParseIMDbID(raw string) (string, bool) {
	id := imdbIDPattern.FindString(raw)
	return id, id != ""
}
