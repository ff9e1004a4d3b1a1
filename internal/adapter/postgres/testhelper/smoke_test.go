package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	owner := NewOwner()
	entry := SeedEntry(t, pool, owner, domain.MediaTypeMovie, 1)

	var title string
	err := pool.QueryRow(
		context.Background(),
		`SELECT title FROM watchlist_entries WHERE id = $1 AND user_id = $2`,
		entry.ID, owner,
	).Scan(&title)
	if err != nil {
		t.Fatalf("expected entry in DB, got error: %v", err)
	}

	if title != entry.Title {
		t.Fatalf("expected title %q, got %q", entry.Title, title)
	}
}
