package watchlist

import (
	"context"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// 2. PreviewImport
// ---------------------------------------------------------------------------

// PreviewImport parses, detects, and validates a file without writing.
// An invalid file is not an error here: the validation result says why.
func (s *Service) PreviewImport(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	if _, ok := ctxutil.OwnerIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	a, err := s.analyze(input.Data)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		Source:     a.source,
		Mapping:    a.mapping,
		Validation: a.validation,
		TotalRows:  len(a.doc.Rows),
	}, nil
}
