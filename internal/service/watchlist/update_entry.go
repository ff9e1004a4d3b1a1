package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist/ordering"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 5. UpdateEntry
// ---------------------------------------------------------------------------

// UpdateEntry changes the note and/or the list position of an entry. An order
// of 0 takes the entry out of the ordered list; a larger order than the block
// holds puts it at the end.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.WatchlistEntry, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var updated domain.WatchlistEntry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if input.Order != nil {
			if err := s.entries.LockOwner(ctx, userID); err != nil {
				return fmt.Errorf("lock owner: %w", err)
			}
			keys, err := s.entries.ListOrderKeys(ctx, userID)
			if err != nil {
				return fmt.Errorf("list order keys: %w", err)
			}
			assignments, err := ordering.SetOrder(keys, input.EntryID, *input.Order)
			if err != nil {
				return err
			}
			if err := s.entries.UpdateOrders(ctx, userID, assignments); err != nil {
				return fmt.Errorf("update orders: %w", err)
			}
		}

		if input.Note != nil {
			var note *string
			if trimmed := strings.TrimSpace(*input.Note); trimmed != "" {
				note = &trimmed
			}
			e, err := s.entries.UpdateNote(ctx, userID, input.EntryID, note)
			if err != nil {
				return fmt.Errorf("update note: %w", err)
			}
			updated = e
			return nil
		}

		e, err := s.entries.GetByID(ctx, userID, input.EntryID)
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
