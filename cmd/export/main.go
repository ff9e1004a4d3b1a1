// Command export writes one owner's watchlist as native CSV.
//
// Flags:
//
//	--owner  owner UUID (required)
//	--out    output path; stdout when empty
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/watchlist-backend/internal/app"
	"github.com/heartmarshall/watchlist-backend/internal/config"
	"github.com/heartmarshall/watchlist-backend/pkg/ctxutil"
)

func main() {
	ownerFlag := flag.String("owner", "", "owner UUID")
	outPath := flag.String("out", "", "output path (default stdout)")
	flag.Parse()

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		log.Fatalf("invalid --owner: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithOwnerID(ctx, ownerID)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	result, err := app.NewWatchlistService(cfg, pool, logger).ExportEntries(ctx)
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("create output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if _, err := out.Write(result.Data); err != nil {
		logger.Error("write output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("export completed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("entries", result.Count),
	)
}
