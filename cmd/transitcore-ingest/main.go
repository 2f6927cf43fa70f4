// Command transitcore-ingest loads a staging "connections" table from
// Postgres into a ConnectionsDb and writes it out in the §6 wire
// format, standing in for the teacher's offline RAPTOR-data load step
// (main.go calling routing.NewLoader(pool).LoadData).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/transitcore/internal/adapter/pgingest"
	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/connstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	outPath := flag.String("out", "connections.db", "path to write the encoded ConnectionsDb to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		logger.Error("unable to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := connstore.New(1, cfg.WindowSeconds, cfg.WindowCount)
	ingester := pgingest.New(pool, logger)
	count, err := ingester.Load(context.Background(), db)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ingest complete", "connections", count)

	f, err := os.Create(*outPath)
	if err != nil {
		logger.Error("unable to create output file", "path", *outPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := db.Encode(f); err != nil {
		logger.Error("encode failed", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote wire-format snapshot", "path", *outPath)
}
