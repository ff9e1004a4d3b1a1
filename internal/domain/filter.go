package domain

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistFilter contains filtering/pagination parameters for watchlist listings.
type WatchlistFilter struct {
	MediaType *MediaType
	Search    *string
	SortBy    ListSort
	SortOrder string
	Limit     int
	Offset    int
}

// OrderKey is the minimal projection of an entry the reorder engine works on.
type OrderKey struct {
	ID        uuid.UUID
	Order     int
	CreatedAt time.Time
}

// OrderAssignment is a new list position for one entry. Order 0 means unordered.
type OrderAssignment struct {
	ID    uuid.UUID
	Order int
}
