package watchlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// writeWithRetry runs fn in its own transaction and retries it while the
// store reports a transient write conflict. Any other error stops at once.
// When the attempts run out the last conflict error is returned.
func (s *Service) writeWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := s.cfg.WriteRetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if s.cfg.WriteRetryInitialInterval > 0 {
		b.InitialInterval = s.cfg.WriteRetryInitialInterval
	}
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)

	op := func() error {
		err := s.tx.RunInTx(ctx, fn)
		if err == nil || errors.Is(err, domain.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		s.log.DebugContext(ctx, "write conflict, retrying",
			slog.String("error", err.Error()),
			slog.Duration("wait", wait),
		)
	}

	return backoff.RetryNotify(op, policy, notify)
}
