package domain

import "strings"

// MediaType distinguishes movies from TV series in the catalog.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

func (m MediaType) String() string { return string(m) }

func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeMovie, MediaTypeTV:
		return true
	}
	return false
}

// ParseMediaType maps the type labels found in exports of various sources
// onto a MediaType. The second result is false when the label is unknown.
func ParseMediaType(raw string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie", "film", "feature", "tvmovie", "tv movie", "video", "short", "documentary":
		return MediaTypeMovie, true
	case "tv", "show", "series", "tv series", "tvseries", "tv show", "tv mini series",
		"tvminiseries", "tv miniseries", "miniseries", "tv special", "tvspecial":
		return MediaTypeTV, true
	}
	return "", false
}

// DuplicatePolicy decides what an import does with a row that is already
// in the owner's watchlist.
type DuplicatePolicy string

const (
	DuplicatePolicySkip   DuplicatePolicy = "skip"
	DuplicatePolicyUpdate DuplicatePolicy = "update"
)

func (p DuplicatePolicy) String() string { return string(p) }

func (p DuplicatePolicy) IsValid() bool {
	switch p {
	case DuplicatePolicySkip, DuplicatePolicyUpdate:
		return true
	}
	return false
}

// ListSort is the ordering requested by a watchlist view.
type ListSort string

const (
	ListSortList        ListSort = "list"
	ListSortTitle       ListSort = "title"
	ListSortReleaseDate ListSort = "release_date"
	ListSortCreatedAt   ListSort = "created_at"
)

func (s ListSort) String() string { return string(s) }

func (s ListSort) IsValid() bool {
	switch s {
	case ListSortList, ListSortTitle, ListSortReleaseDate, ListSortCreatedAt:
		return true
	}
	return false
}
