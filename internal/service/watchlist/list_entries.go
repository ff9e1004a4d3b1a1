package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 8. ListEntries
// ---------------------------------------------------------------------------

// ListEntries returns one page of the owner's watchlist.
func (s *Service) ListEntries(ctx context.Context, input ListInput) (*ListResult, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.ListDefaultLimit
	}
	if s.cfg.ListMaxLimit > 0 && limit > s.cfg.ListMaxLimit {
		limit = s.cfg.ListMaxLimit
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = domain.ListSortList
	}

	entries, total, err := s.entries.Find(ctx, userID, domain.WatchlistFilter{
		MediaType: input.MediaType,
		Search:    input.Search,
		SortBy:    sortBy,
		SortOrder: strings.ToUpper(input.SortOrder),
		Limit:     limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}

	return &ListResult{
		Entries:    entries,
		TotalCount: total,
		HasMore:    input.Offset+len(entries) < total,
	}, nil
}
