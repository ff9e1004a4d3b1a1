package watchlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 9. GetStatus
// ---------------------------------------------------------------------------

// GetStatus tells whether a catalog item is already on the owner's watchlist.
func (s *Service) GetStatus(ctx context.Context, input StatusInput) (*StatusResult, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	e, err := s.entries.GetByKey(ctx, userID, domain.EntryKey{
		ExternalID: input.ExternalID,
		MediaType:  input.MediaType,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return &StatusResult{InWatchlist: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &StatusResult{InWatchlist: true, Entry: &e}, nil
}
