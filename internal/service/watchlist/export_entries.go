package watchlist

import (
	"bytes"
	"context"
	"fmt"

	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 3. ExportEntries
// ---------------------------------------------------------------------------

// ExportEntries writes the owner's watchlist in list order as native CSV.
// Importing the result back with the skip policy changes nothing.
func (s *Service) ExportEntries(ctx context.Context) (*ExportResult, error) {
	userID, ok := ctxutil.OwnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if s.cfg.ExportMaxEntries > 0 {
		count, err := s.entries.Count(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count entries: %w", err)
		}
		if count > s.cfg.ExportMaxEntries {
			return nil, domain.NewValidationError("watchlist",
				fmt.Sprintf("has %d entries, the export limit is %d", count, s.cfg.ExportMaxEntries))
		}
	}

	entries, err := s.entries.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	var buf bytes.Buffer
	if err := csvimport.WriteNative(&buf, entries); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return &ExportResult{Data: buf.Bytes(), Count: len(entries)}, nil
}
