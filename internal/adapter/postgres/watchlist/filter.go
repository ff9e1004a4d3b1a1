package watchlist

import (
	"strings"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f domain.WatchlistFilter) domain.WatchlistFilter {
	switch f.SortBy {
	case domain.ListSortList, domain.ListSortTitle, domain.ListSortReleaseDate, domain.ListSortCreatedAt:
		// valid
	default:
		f.SortBy = domain.ListSortList
	}

	switch strings.ToUpper(f.SortOrder) {
	case sortOrderASC:
		f.SortOrder = sortOrderASC
	case sortOrderDESC:
		f.SortOrder = sortOrderDESC
	default:
		if f.SortBy == domain.ListSortCreatedAt {
			f.SortOrder = sortOrderDESC
		} else {
			f.SortOrder = sortOrderASC
		}
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	if f.Search != nil && strings.TrimSpace(*f.Search) == "" {
		f.Search = nil
	}

	return f
}

// orderByClauses returns the ORDER BY terms for the filter. Every variant ends
// with id so pagination is stable.
func orderByClauses(f domain.WatchlistFilter) []string {
	dir := f.SortOrder
	switch f.SortBy {
	case domain.ListSortTitle:
		return []string{"lower(title) " + dir, "id"}
	case domain.ListSortReleaseDate:
		return []string{"COALESCE(release_date, first_air_date) " + dir + " NULLS LAST", "id"}
	case domain.ListSortCreatedAt:
		return []string{"created_at " + dir, "id"}
	default:
		// Unordered entries always trail the ordered block.
		return []string{"(sort_order = 0)", "sort_order " + dir, "created_at DESC", "id"}
	}
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
