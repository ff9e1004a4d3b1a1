package csvimport

import (
	"fmt"
	"strconv"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

const (
	DefaultMaxMissingTitleRatio = 0.5
	DefaultSampleSize           = 5
)

// ValidateOptions bounds a document. Zero values fall back to defaults;
// MaxRows 0 means no limit.
type ValidateOptions struct {
	MaxRows              int
	MaxMissingTitleRatio float64
	SampleSize           int
}

// RowMessage is a non-blocking finding tied to a record number.
// Row 0 refers to the document as a whole.
type RowMessage struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ValidationResult is computed once per document.
type ValidationResult struct {
	IsValid    bool         `json:"isValid"`
	Errors     []string     `json:"errors"`
	Warnings   []RowMessage `json:"warnings"`
	SampleRows []Row        `json:"sampleRows"`
}

var dateFields = []struct {
	field Field
	label string
}{
	{FieldReleaseDate, "release date"},
	{FieldFirstAirDate, "first air date"},
	{FieldCreatedAt, "date created"},
}

// Validate checks a mapped document. Errors block the import; warnings are
// reported alongside it.
func Validate(doc *Document, m Mapping, opts ValidateOptions) ValidationResult {
	if opts.MaxMissingTitleRatio <= 0 {
		opts.MaxMissingTitleRatio = DefaultMaxMissingTitleRatio
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}

	res := ValidationResult{
		Errors:   []string{},
		Warnings: []RowMessage{},
	}
	total := len(doc.Rows)

	if !m.Has(FieldTitle) {
		res.Errors = append(res.Errors, "missing required column: title")
	}
	if total == 0 {
		res.Errors = append(res.Errors, "file contains no data rows")
	}
	if opts.MaxRows > 0 && total > opts.MaxRows {
		res.Errors = append(res.Errors, fmt.Sprintf("file has %d rows, the limit is %d", total, opts.MaxRows))
	}

	if !m.Has(FieldMediaType) && total > 0 {
		res.Warnings = append(res.Warnings, RowMessage{
			Row:     0,
			Message: "no type column found, all rows default to movie",
		})
	}

	missingTitle := 0
	seen := make(map[string]int, total)
	for _, row := range doc.Rows {
		title := m.Value(row, FieldTitle)
		if m.Has(FieldTitle) && title == "" {
			missingTitle++
		}

		if m.Has(FieldMediaType) {
			raw := m.Value(row, FieldMediaType)
			if _, ok := domain.ParseMediaType(raw); !ok {
				res.Warnings = append(res.Warnings, RowMessage{
					Row:     row.Line,
					Message: fmt.Sprintf("unrecognized type %q, defaulting to movie", raw),
				})
			}
		}

		for _, df := range dateFields {
			raw := m.Value(row, df.field)
			if raw == "" {
				continue
			}
			if _, ok := ParseDate(raw); !ok {
				res.Warnings = append(res.Warnings, RowMessage{
					Row:     row.Line,
					Message: fmt.Sprintf("could not parse %s %q, ignoring it", df.label, raw),
				})
			}
		}

		if title != "" {
			key := duplicateKey(row, m, title)
			if first, dup := seen[key]; dup {
				res.Warnings = append(res.Warnings, RowMessage{
					Row:     row.Line,
					Message: "duplicate of row " + strconv.Itoa(first),
				})
			} else {
				seen[key] = row.Line
			}
		}
	}

	if total > 0 && float64(missingTitle)/float64(total) > opts.MaxMissingTitleRatio {
		res.Errors = append(res.Errors, fmt.Sprintf("%d of %d rows are missing a title", missingTitle, total))
	}

	n := min(opts.SampleSize, total)
	res.SampleRows = append(make([]Row, 0, n), doc.Rows[:n]...)

	res.IsValid = len(res.Errors) == 0
	return res
}

// duplicateKey identifies a row within one file: the normalized title plus
// the strongest id the row carries.
func duplicateKey(row Row, m Mapping, title string) string {
	id := m.Value(row, FieldExternalID)
	if id == "" {
		if mt, ext, ok := ParseCatalogURL(m.Value(row, FieldURL)); ok {
			id = fmt.Sprintf("%s/%d", mt, ext)
		}
	}
	if id == "" {
		id = m.Value(row, FieldIMDbID)
	}
	return domain.NormalizeText(title) + "\x00" + id
}
