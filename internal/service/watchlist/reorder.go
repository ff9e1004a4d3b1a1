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
// 4. MoveEntry
// ---------------------------------------------------------------------------

// MoveEntry applies a drag-and-drop move made in a possibly filtered view.
// Moves in views not sorted by list order are ignored. Moves of one owner
// are serialized; the last one wins.
func (s *Service) MoveEntry(ctx context.Context, input MoveInput) (*MoveOutcome, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	sort := input.Sort
	if sort == "" {
		sort = domain.ListSortList
	}
	if sort != domain.ListSortList {
		return &MoveOutcome{Applied: false}, nil
	}

	var outcome MoveOutcome
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.entries.LockOwner(ctx, userID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		keys, err := s.entries.ListOrderKeys(ctx, userID)
		if err != nil {
			return fmt.Errorf("list order keys: %w", err)
		}

		res, err := ordering.Move(keys, ordering.MoveRequest{
			EntryID:   input.EntryID,
			FromIndex: input.FromIndex,
			ToIndex:   input.ToIndex,
			Visible:   input.VisibleIDs,
			Sort:      sort,
		})
		if err != nil {
			return err
		}

		if err := s.entries.UpdateOrders(ctx, userID, res.Assignments); err != nil {
			return fmt.Errorf("update orders: %w", err)
		}

		outcome = MoveOutcome{Applied: res.Applied, Changed: len(res.Assignments)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "watchlist entry moved",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", input.EntryID.String()),
		slog.Int("to_index", input.ToIndex),
		slog.Int("changed", outcome.Changed),
	)

	return &outcome, nil
}
