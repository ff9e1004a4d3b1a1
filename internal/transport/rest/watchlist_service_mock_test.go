package rest

import (
	"context"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist"
)

type watchlistServiceMock struct {
	ImportEntriesFunc func(ctx context.Context, input watchlist.ImportInput) (*watchlist.ImportResult, error)
	PreviewImportFunc func(ctx context.Context, input watchlist.PreviewInput) (*watchlist.PreviewResult, error)
	ExportEntriesFunc func(ctx context.Context) (*watchlist.ExportResult, error)
	UpdateEntryFunc   func(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.WatchlistEntry, error)
	MoveEntryFunc     func(ctx context.Context, input watchlist.MoveInput) (*watchlist.MoveOutcome, error)
	ListEntriesFunc   func(ctx context.Context, input watchlist.ListInput) (*watchlist.ListResult, error)
	AddEntryFunc      func(ctx context.Context, input watchlist.AddEntryInput) (*domain.WatchlistEntry, bool, error)
	RemoveEntryFunc   func(ctx context.Context, input watchlist.RemoveEntryInput) error
	GetStatusFunc     func(ctx context.Context, input watchlist.StatusInput) (*watchlist.StatusResult, error)
}

func (m *watchlistServiceMock) ImportEntries(ctx context.Context, input watchlist.ImportInput) (*watchlist.ImportResult, error) {
	return m.ImportEntriesFunc(ctx, input)
}

func (m *watchlistServiceMock) PreviewImport(ctx context.Context, input watchlist.PreviewInput) (*watchlist.PreviewResult, error) {
	return m.PreviewImportFunc(ctx, input)
}

func (m *watchlistServiceMock) ExportEntries(ctx context.Context) (*watchlist.ExportResult, error) {
	return m.ExportEntriesFunc(ctx)
}

func (m *watchlistServiceMock) UpdateEntry(ctx context.Context, input watchlist.UpdateEntryInput) (*domain.WatchlistEntry, error) {
	return m.UpdateEntryFunc(ctx, input)
}

func (m *watchlistServiceMock) MoveEntry(ctx context.Context, input watchlist.MoveInput) (*watchlist.MoveOutcome, error) {
	return m.MoveEntryFunc(ctx, input)
}

func (m *watchlistServiceMock) ListEntries(ctx context.Context, input watchlist.ListInput) (*watchlist.ListResult, error) {
	return m.ListEntriesFunc(ctx, input)
}

func (m *watchlistServiceMock) AddEntry(ctx context.Context, input watchlist.AddEntryInput) (*domain.WatchlistEntry, bool, error) {
	return m.AddEntryFunc(ctx, input)
}

func (m *watchlistServiceMock) RemoveEntry(ctx context.Context, input watchlist.RemoveEntryInput) error {
	return m.RemoveEntryFunc(ctx, input)
}

func (m *watchlistServiceMock) GetStatus(ctx context.Context, input watchlist.StatusInput) (*watchlist.StatusResult, error) {
	return m.GetStatusFunc(ctx, input)
}
