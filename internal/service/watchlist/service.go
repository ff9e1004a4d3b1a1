package watchlist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/provider"
)

type entryRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (domain.WatchlistEntry, error)
	GetByKey(ctx context.Context, userID uuid.UUID, key domain.EntryKey) (domain.WatchlistEntry, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]domain.WatchlistEntry, error)
	ListOrderKeys(ctx context.Context, userID uuid.UUID) ([]domain.OrderKey, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Find(ctx context.Context, userID uuid.UUID, filter domain.WatchlistFilter) ([]domain.WatchlistEntry, int, error)

	LockOwner(ctx context.Context, userID uuid.UUID) error
	Create(ctx context.Context, e *domain.WatchlistEntry) (domain.WatchlistEntry, error)
	Update(ctx context.Context, e *domain.WatchlistEntry) (domain.WatchlistEntry, error)
	UpdateNote(ctx context.Context, userID, id uuid.UUID, note *string) (domain.WatchlistEntry, error)
	UpdateOrders(ctx context.Context, userID uuid.UUID, assignments []domain.OrderAssignment) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type catalog interface {
	FindByIMDbID(ctx context.Context, imdbID string, preferred domain.MediaType) (*provider.CatalogItem, error)
	Search(ctx context.Context, query provider.SearchQuery) (*provider.CatalogItem, error)
	GetDetails(ctx context.Context, mediaType domain.MediaType, externalID int) (*provider.CatalogItem, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides watchlist import/export and ordering operations.
type Service struct {
	entries entryRepo
	catalog catalog
	tx      txManager
	cfg     config.WatchlistConfig
	log     *slog.Logger

	importing sync.Map // owner id -> struct{}
}

// NewService creates a new watchlist service. cat may be nil, which disables
// catalog lookups: rows must then carry their own TMDB ids.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	tx txManager,
	cat catalog,
	cfg config.WatchlistConfig,
) *Service {
	return &Service{
		entries: entries,
		catalog: cat,
		tx:      tx,
		cfg:     cfg,
		log:     log.With("service", "watchlist"),
	}
}

// lockImport marks an import as running for the owner. The returned func
// releases it.
func (s *Service) lockImport(userID uuid.UUID) (func(), bool) {
	if _, busy := s.importing.LoadOrStore(userID, struct{}{}); busy {
		return nil, false
	}
	return func() { s.importing.Delete(userID) }, true
}

// strPtrOrNil returns nil for an empty string.
func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
