// Package watchlist implements the watchlist entry repository using PostgreSQL.
// Fixed queries are raw SQL; the filtered listing is built with squirrel.
package watchlist

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/watchlist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// Repo provides watchlist persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new watchlist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const tableName = "watchlist_entries"

var entryColumns = []string{
	"id", "user_id", "external_id", "media_type", "title",
	"poster_path", "backdrop_path", "release_date", "first_air_date",
	"imdb_id", "overview", "genres", "creators", "runtime", "rating",
	"note", "sort_order", "created_at", "updated_at",
}

var columnList = strings.Join(entryColumns, ", ")

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

var (
	getByIDSQL = `SELECT ` + columnList + ` FROM watchlist_entries WHERE id = $1 AND user_id = $2`

	getByKeySQL = `SELECT ` + columnList + ` FROM watchlist_entries
WHERE user_id = $1 AND external_id = $2 AND media_type = $3`

	listAllSQL = `SELECT ` + columnList + ` FROM watchlist_entries
WHERE user_id = $1
ORDER BY (sort_order = 0), sort_order, created_at DESC, id`

	createSQL = `INSERT INTO watchlist_entries (
    id, user_id, external_id, media_type, title,
    poster_path, backdrop_path, release_date, first_air_date,
    imdb_id, overview, genres, creators, runtime, rating,
    note, sort_order, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + columnList

	updateSQL = `UPDATE watchlist_entries SET
    title = $3, poster_path = $4, backdrop_path = $5,
    release_date = $6, first_air_date = $7, imdb_id = $8, overview = $9,
    genres = $10, creators = $11, runtime = $12, rating = $13, note = $14,
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + columnList

	updateNoteSQL = `UPDATE watchlist_entries SET note = $3, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + columnList
)

const listOrderKeysSQL = `
SELECT id, sort_order, created_at FROM watchlist_entries
WHERE user_id = $1
ORDER BY (sort_order = 0), sort_order, created_at DESC, id`

const countSQL = `SELECT count(*) FROM watchlist_entries WHERE user_id = $1`

const updateOrderSQL = `
UPDATE watchlist_entries SET sort_order = $3, updated_at = now()
WHERE id = $1 AND user_id = $2`

const deleteSQL = `DELETE FROM watchlist_entries WHERE id = $1 AND user_id = $2`

// pg_advisory_xact_lock takes a bigint; hashtextextended spreads owner ids over it.
const lockOwnerSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an entry by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (domain.WatchlistEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByIDSQL, id, userID)
	e, err := scanEntry(row)
	if err != nil {
		return domain.WatchlistEntry{}, postgres.MapError(err, "watchlist entry", id)
	}
	return e, nil
}

// GetByKey returns the owner's entry for a catalog item.
func (r *Repo) GetByKey(ctx context.Context, userID uuid.UUID, key domain.EntryKey) (domain.WatchlistEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getByKeySQL, userID, key.ExternalID, string(key.MediaType))
	e, err := scanEntry(row)
	if err != nil {
		return domain.WatchlistEntry{}, postgres.MapError(err, "watchlist entry", key)
	}
	return e, nil
}

// ListAll returns every entry of the owner in list order: ordered entries by
// position, then unordered entries newest first.
func (r *Repo) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.WatchlistEntry, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listAllSQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "watchlist", userID)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, postgres.MapError(err, "watchlist", userID)
	}
	return entries, nil
}

// ListOrderKeys returns the projection the reorder engine needs for every
// entry of the owner.
func (r *Repo) ListOrderKeys(ctx context.Context, userID uuid.UUID) ([]domain.OrderKey, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listOrderKeysSQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "watchlist", userID)
	}
	defer rows.Close()

	keys := make([]domain.OrderKey, 0)
	for rows.Next() {
		var k domain.OrderKey
		if err := rows.Scan(&k.ID, &k.Order, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "watchlist", userID)
	}
	return keys, nil
}

// Count returns the number of entries of the owner.
func (r *Repo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL, userID).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "watchlist", userID)
	}
	return n, nil
}

// Find returns a page of entries matching the filter and the total count of
// matches ignoring limit and offset.
func (r *Repo) Find(ctx context.Context, userID uuid.UUID, filter domain.WatchlistFilter) ([]domain.WatchlistEntry, int, error) {
	f := normalizeFilter(filter)

	base := psql.Select().From(tableName).Where(sq.Eq{"user_id": userID})
	if f.MediaType != nil {
		base = base.Where(sq.Eq{"media_type": string(*f.MediaType)})
	}
	if f.Search != nil {
		base = base.Where(sq.ILike{"title": "%" + escapeLike(strings.TrimSpace(*f.Search)) + "%"})
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countQuery, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := querier.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "watchlist", userID)
	}

	listQuery, listArgs, err := base.
		Columns(entryColumns...).
		OrderBy(orderByClauses(f)...).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, postgres.MapError(err, "watchlist", userID)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, postgres.MapError(err, "watchlist", userID)
	}
	return entries, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// LockOwner takes a transaction-scoped advisory lock on the owner's list.
// Outside a transaction it returns postgres.ErrNoTx, since the lock would be
// released as soon as the statement finished.
func (r *Repo) LockOwner(ctx context.Context, userID uuid.UUID) error {
	if !postgres.InTx(ctx) {
		return fmt.Errorf("lock owner %s: %w", userID, postgres.ErrNoTx)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, lockOwnerSQL, userID.String()); err != nil {
		return postgres.MapError(err, "watchlist lock", userID)
	}
	return nil
}

// Create inserts a new entry and returns it as stored.
// A second entry for the same catalog item returns domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, e *domain.WatchlistEntry) (domain.WatchlistEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, createSQL,
		e.ID, e.UserID, e.ExternalID, string(e.MediaType), e.Title,
		e.PosterPath, e.BackdropPath, e.ReleaseDate, e.FirstAirDate,
		e.IMDbID, e.Overview, nonNil(e.Genres), nonNil(e.Creators), e.Runtime, e.Rating,
		e.Note, e.Order, e.CreatedAt, e.UpdatedAt,
	)
	created, err := scanEntry(row)
	if err != nil {
		return domain.WatchlistEntry{}, postgres.MapError(err, "watchlist entry", e.Key())
	}
	return created, nil
}

// Update overwrites the catalog metadata and note of an entry. The list
// position is left alone; it only changes through UpdateOrders.
func (r *Repo) Update(ctx context.Context, e *domain.WatchlistEntry) (domain.WatchlistEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateSQL,
		e.ID, e.UserID, e.Title,
		e.PosterPath, e.BackdropPath, e.ReleaseDate, e.FirstAirDate,
		e.IMDbID, e.Overview, nonNil(e.Genres), nonNil(e.Creators), e.Runtime, e.Rating,
		e.Note,
	)
	updated, err := scanEntry(row)
	if err != nil {
		return domain.WatchlistEntry{}, postgres.MapError(err, "watchlist entry", e.ID)
	}
	return updated, nil
}

// UpdateNote sets or clears the note of an entry.
func (r *Repo) UpdateNote(ctx context.Context, userID, id uuid.UUID, note *string) (domain.WatchlistEntry, error) {
	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, updateNoteSQL, id, userID, note)
	updated, err := scanEntry(row)
	if err != nil {
		return domain.WatchlistEntry{}, postgres.MapError(err, "watchlist entry", id)
	}
	return updated, nil
}

// UpdateOrders writes new list positions in one round trip using pgx.Batch.
// An assignment for an id the owner does not have returns domain.ErrNotFound.
func (r *Repo) UpdateOrders(ctx context.Context, userID uuid.UUID, assignments []domain.OrderAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(updateOrderSQL, a.ID, userID, a.Order)
	}

	br := postgres.QuerierFromCtx(ctx, r.pool).SendBatch(ctx, batch)
	defer br.Close()

	for _, a := range assignments {
		tag, err := br.Exec()
		if err != nil {
			return postgres.MapError(err, "watchlist entry", a.ID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("watchlist entry %s: %w", a.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// Delete removes an entry. A missing entry returns domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, deleteSQL, id, userID)
	if err != nil {
		return postgres.MapError(err, "watchlist entry", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watchlist entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (domain.WatchlistEntry, error) {
	var (
		e         domain.WatchlistEntry
		mediaType string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.ExternalID, &mediaType, &e.Title,
		&e.PosterPath, &e.BackdropPath, &e.ReleaseDate, &e.FirstAirDate,
		&e.IMDbID, &e.Overview, &e.Genres, &e.Creators, &e.Runtime, &e.Rating,
		&e.Note, &e.Order, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.WatchlistEntry{}, err
	}
	e.MediaType = domain.MediaType(mediaType)
	return e, nil
}

func collectEntries(rows pgx.Rows) ([]domain.WatchlistEntry, error) {
	defer rows.Close()

	entries := make([]domain.WatchlistEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
