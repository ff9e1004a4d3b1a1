package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// NativeHeaders is the column set of the application's own export. Import
// detects it as SourceNative.
var NativeHeaders = []string{
	"Order", "Title", "Type", "URL", "IMDB ID", "Release Date", "Year", "Genre",
	"Description", "Directors/Creators", "Runtime", "IMDB Rating", "Note",
	"Date Created", "Date Modified",
}

// WriteNative serializes entries, in the given order, as RFC 4180 CSV.
func WriteNative(w io.Writer, entries []domain.WatchlistEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(NativeHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range entries {
		if err := cw.Write(nativeRecord(&entries[i])); err != nil {
			return fmt.Errorf("write entry %s: %w", entries[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func nativeRecord(e *domain.WatchlistEntry) []string {
	rec := make([]string, 0, len(NativeHeaders))

	order := ""
	if e.IsOrdered() {
		order = strconv.Itoa(e.Order)
	}
	year := ""
	if y := e.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	runtime := ""
	if e.Runtime != nil {
		runtime = strconv.Itoa(*e.Runtime)
	}
	rating := ""
	if e.Rating != nil {
		rating = strconv.FormatFloat(*e.Rating, 'f', 1, 64)
	}

	rec = append(rec,
		order,
		e.Title,
		e.MediaType.String(),
		e.CatalogURL(),
		deref(e.IMDbID),
		formatDate(e.AirDate()),
		year,
		strings.Join(e.Genres, ", "),
		deref(e.Overview),
		strings.Join(e.Creators, ", "),
		runtime,
		rating,
		deref(e.Note),
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return rec
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
