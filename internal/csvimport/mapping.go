package csvimport

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field is a canonical column meaning, independent of the source's header text.
type Field string

const (
	FieldTitle        Field = "title"
	FieldMediaType    Field = "mediaType"
	FieldReleaseDate  Field = "releaseDate"
	FieldFirstAirDate Field = "firstAirDate"
	FieldYear         Field = "year"
	FieldExternalID   Field = "externalId"
	FieldIMDbID       Field = "imdbId"
	FieldURL          Field = "url"
	FieldOrder        Field = "order"
	FieldNote         Field = "note"
	FieldPosterPath   Field = "posterPath"
	FieldBackdropPath Field = "backdropPath"
	FieldOverview     Field = "overview"
	FieldGenres       Field = "genres"
	FieldCreators     Field = "creators"
	FieldRuntime      Field = "runtime"
	FieldRating       Field = "rating"
	FieldCreatedAt    Field = "createdAt"
)

// Mapping resolves canonical fields to the actual header of the document.
// A field without a key was not found.
type Mapping map[Field]string

// Has reports whether the field has a column.
func (m Mapping) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Value returns the trimmed cell of a mapped field, or "".
func (m Mapping) Value(row Row, f Field) string {
	h, ok := m[f]
	if !ok {
		return ""
	}
	return row.Get(h)
}

// NormalizeHeader folds a header for comparison: NFKC, lowercase, and with
// whitespace, underscores, and hyphens removed.
func NormalizeHeader(h string) string {
	h = strings.ToLower(norm.NFKC.String(h))
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldOrder fixes the order generic matching walks the canonical fields in.
var fieldOrder = []Field{
	FieldTitle, FieldMediaType, FieldExternalID, FieldIMDbID, FieldURL,
	FieldReleaseDate, FieldFirstAirDate, FieldYear, FieldOrder, FieldNote,
	FieldPosterPath, FieldBackdropPath, FieldOverview, FieldGenres,
	FieldCreators, FieldRuntime, FieldRating, FieldCreatedAt,
}

// synonyms are normalized header keys recognized for generic files.
var synonyms = map[Field][]string{
	FieldTitle:        {"title", "name", "movietitle", "filmtitle", "showtitle", "originaltitle", "movie", "film", "show"},
	FieldMediaType:    {"type", "kind", "mediatype", "titletype", "category", "format"},
	FieldExternalID:   {"tmdbid", "tmdb", "externalid", "id"},
	FieldIMDbID:       {"imdbid", "imdb", "const", "tconst"},
	FieldURL:          {"url", "link", "href"},
	FieldReleaseDate:  {"releasedate", "released", "release"},
	FieldFirstAirDate: {"firstairdate", "firstaired", "airdate", "premiered", "premiere"},
	FieldYear:         {"year", "releaseyear", "yr"},
	FieldOrder:        {"order", "position", "rank", "#"},
	FieldNote:         {"note", "notes", "comment", "comments", "mynote", "mynotes"},
	FieldPosterPath:   {"posterpath", "poster", "image"},
	FieldBackdropPath: {"backdroppath", "backdrop"},
	FieldOverview:     {"overview", "description", "plot", "summary", "synopsis"},
	FieldGenres:       {"genres", "genre", "tags"},
	FieldCreators:     {"directors/creators", "directors", "director", "creators", "creator"},
	FieldRuntime:      {"runtime", "runtime(mins)", "duration", "length"},
	FieldRating:       {"rating", "imdbrating", "voteaverage", "score"},
	FieldCreatedAt:    {"datecreated", "dateadded", "createdat", "created", "added"},
}

// minContainsLen keeps short synonyms like "id" from matching inside other keys.
const minContainsLen = 4

// mapGeneric matches headers against synonyms. Exact keys are tried for
// every field before substring matches, and each header serves one field.
func mapGeneric(headers []string) Mapping {
	m := Mapping{}
	keys := normalizedKeys(headers)
	used := make([]bool, len(headers))

	claim := func(f Field, match func(key, syn string) bool) {
		if m.Has(f) {
			return
		}
		for _, syn := range synonyms[f] {
			for i, key := range keys {
				if used[i] || !match(key, syn) {
					continue
				}
				m[f] = headers[i]
				used[i] = true
				return
			}
		}
	}

	for _, f := range fieldOrder {
		claim(f, func(key, syn string) bool { return key == syn })
	}
	for _, f := range fieldOrder {
		claim(f, func(key, syn string) bool {
			return len(syn) >= minContainsLen && strings.Contains(key, syn)
		})
	}
	return m
}

// mapWithTable applies a fixed header table. The first header with a given
// key wins.
func mapWithTable(headers []string, table map[string]Field) Mapping {
	m := Mapping{}
	for i, key := range normalizedKeys(headers) {
		f, ok := table[key]
		if !ok || m.Has(f) {
			continue
		}
		m[f] = headers[i]
	}
	return m
}

func normalizedKeys(headers []string) []string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = NormalizeHeader(h)
	}
	return keys
}
