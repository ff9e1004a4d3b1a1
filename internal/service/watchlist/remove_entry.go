package watchlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist/ordering"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 7. RemoveEntry
// ---------------------------------------------------------------------------

// RemoveEntry deletes an entry and closes the gap it leaves in the ordered list.
func (s *Service) RemoveEntry(ctx context.Context, input RemoveEntryInput) error {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.entries.LockOwner(ctx, userID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}
		if err := s.entries.Delete(ctx, userID, input.EntryID); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		keys, err := s.entries.ListOrderKeys(ctx, userID)
		if err != nil {
			return fmt.Errorf("list order keys: %w", err)
		}
		if err := s.entries.UpdateOrders(ctx, userID, ordering.Normalize(keys)); err != nil {
			return fmt.Errorf("update orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "watchlist entry removed",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", input.EntryID.String()),
	)
	return nil
}
