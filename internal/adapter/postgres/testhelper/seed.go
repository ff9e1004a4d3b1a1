package testhelper

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewOwner returns a fresh owner id. Owners live in the identity provider,
// so there is no row to insert.
func NewOwner() uuid.UUID {
	return uuid.New()
}

// SeedEntry inserts a watchlist entry for userID with the given list order.
// The catalog id is random so entries never collide.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, mediaType domain.MediaType, order int) domain.WatchlistEntry {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	e := domain.WatchlistEntry{
		ID:         uuid.New(),
		UserID:     userID,
		ExternalID: rand.IntN(1_000_000_000) + 1,
		MediaType:  mediaType,
		Title:      "Seeded " + uniqueSuffix(),
		Genres:     []string{},
		Creators:   []string{},
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO watchlist_entries (id, user_id, external_id, media_type, title, sort_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.UserID, e.ExternalID, string(e.MediaType), e.Title, e.Order, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert: %v", err)
	}

	return e
}
