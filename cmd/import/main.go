// Command import loads a watchlist CSV for one owner without going through
// the HTTP API. It accepts the same files as POST /api/watchlist/import.
//
// Flags:
//
//	--owner             owner UUID (required)
//	--file              path to the CSV file (required)
//	--duplicate-action  skip or update (default skip)
//	--dry-run           only detect, map and validate the file
//
// Exit codes: 0 = success, 1 = error, 2 = some rows were not imported.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/watchlist-backend/internal/app"
	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
	"github.com/heartmarshall/watchlist-backend/internal/service/watchlist"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

func main() {
	ownerFlag := flag.String("owner", "", "owner UUID")
	filePath := flag.String("file", "", "path to the CSV file")
	duplicateAction := flag.String("duplicate-action", string(domain.DuplicatePolicySkip), "skip or update")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		log.Fatalf("invalid --owner: %v", err)
	}
	if *filePath == "" {
		log.Fatal("--file is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = ctxutil.WithOwnerID(ctx, ownerID)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := app.NewWatchlistService(cfg, pool, logger)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *dryRun {
		preview, err := svc.PreviewImport(ctx, watchlist.PreviewInput{Data: data})
		if err != nil {
			logger.Error("preview failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		enc.Encode(preview) //nolint:errcheck
		return
	}

	result, err := svc.ImportEntries(ctx, watchlist.ImportInput{
		Data:            data,
		DuplicatePolicy: domain.DuplicatePolicy(*duplicateAction),
	})
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import completed",
		slog.String("owner_id", ownerID.String()),
		slog.String("source", string(result.Source)),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
	)
	enc.Encode(result) //nolint:errcheck

	if len(result.Errors) > 0 {
		os.Exit(2)
	}
}
