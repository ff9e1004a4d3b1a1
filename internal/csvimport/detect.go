package csvimport

// Source is the kind of export a file came from.
type Source string

const (
	SourceNative  Source = "native"
	SourceIMDb    Source = "imdb"
	SourceTMDB    Source = "tmdb"
	SourceGeneric Source = "generic"
)

func (s Source) String() string { return string(s) }

type signature struct {
	source   Source
	required []string
	table    map[string]Field
}

// signatures are tried in order; the first whose required keys are all
// present wins.
var signatures = []signature{
	{
		source:   SourceNative,
		required: []string{"order", "title", "type", "url", "datecreated"},
		table: map[string]Field{
			"order":              FieldOrder,
			"title":              FieldTitle,
			"type":               FieldMediaType,
			"url":                FieldURL,
			"imdbid":             FieldIMDbID,
			"releasedate":        FieldReleaseDate,
			"year":               FieldYear,
			"genre":              FieldGenres,
			"description":        FieldOverview,
			"directors/creators": FieldCreators,
			"runtime":            FieldRuntime,
			"imdbrating":         FieldRating,
			"note":               FieldNote,
			"datecreated":        FieldCreatedAt,
		},
	},
	{
		source:   SourceIMDb,
		required: []string{"const", "title", "titletype"},
		table: map[string]Field{
			"position":      FieldOrder,
			"const":         FieldIMDbID,
			"created":       FieldCreatedAt,
			"description":   FieldNote,
			"title":         FieldTitle,
			"url":           FieldURL,
			"titletype":     FieldMediaType,
			"imdbrating":    FieldRating,
			"runtime(mins)": FieldRuntime,
			"year":          FieldYear,
			"genres":        FieldGenres,
			"releasedate":   FieldReleaseDate,
			"directors":     FieldCreators,
		},
	},
	{
		source:   SourceTMDB,
		required: []string{"tmdbid", "type", "name"},
		table: map[string]Field{
			"tmdbid":      FieldExternalID,
			"imdbid":      FieldIMDbID,
			"type":        FieldMediaType,
			"name":        FieldTitle,
			"releasedate": FieldReleaseDate,
			"rating":      FieldRating,
			"daterated":   FieldCreatedAt,
		},
	},
}

// DetectAndMap identifies the source of a document and maps its columns.
// It never fails: unknown layouts are treated as generic.
func DetectAndMap(doc *Document) (Source, Mapping) {
	present := make(map[string]bool, len(doc.Headers))
	for _, key := range normalizedKeys(doc.Headers) {
		present[key] = true
	}

	for _, sig := range signatures {
		if matches(present, sig.required) {
			return sig.source, mapWithTable(doc.Headers, sig.table)
		}
	}
	return SourceGeneric, mapGeneric(doc.Headers)
}

func matches(present map[string]bool, required []string) bool {
	for _, key := range required {
		if !present[key] {
			return false
		}
	}
	return true
}
