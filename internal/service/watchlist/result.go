package watchlist

import (
	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// ImportResult contains the outcome of a CSV import.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []RowError
	Warnings []RowWarning
	Source   csvimport.Source
}

// RowError describes a row that was not imported. Row is the CSV record
// number, the header being row 1.
type RowError struct {
	Row   int
	Error string
}

// RowWarning describes a non-fatal problem with a row. Row 0 refers to the
// whole file.
type RowWarning struct {
	Row     int
	Warning string
}

func (r *ImportResult) addError(row int, msg string) {
	r.Errors = append(r.Errors, RowError{Row: row, Error: msg})
}

func (r *ImportResult) addWarning(row int, msg string) {
	r.Warnings = append(r.Warnings, RowWarning{Row: row, Warning: msg})
}

// PreviewResult contains what an import would see without writing anything.
type PreviewResult struct {
	Source     csvimport.Source
	Mapping    csvimport.Mapping
	Validation csvimport.ValidationResult
	TotalRows  int
}

// ListResult contains a page of watchlist entries.
type ListResult struct {
	Entries    []domain.WatchlistEntry
	TotalCount int
	HasMore    bool
}

// ExportResult contains the native CSV of the owner's watchlist.
type ExportResult struct {
	Data  []byte
	Count int
}

// MoveOutcome reports whether a move changed the list.
type MoveOutcome struct {
	Applied bool
	Changed int
}

// StatusResult tells whether a catalog item is on the owner's watchlist.
type StatusResult struct {
	InWatchlist bool
	Entry       *domain.WatchlistEntry
}
