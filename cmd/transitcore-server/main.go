// Command transitcore-server runs the HTTP façade (§6.1) over an
// in-memory ConnectionsDb populated from Postgres at startup, grounded
// on the teacher's main.go composition root.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/transitcore/internal/adapter/pgingest"
	"github.com/antigravity/transitcore/internal/api"
	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/connstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db := connstore.New(1, cfg.WindowSeconds, cfg.WindowCount)

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		logger.Error("unable to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to postgres")

	ingester := pgingest.New(pool, logger)
	if _, err := ingester.Load(context.Background(), db); err != nil {
		logger.Error("failed to load staged connections", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(db, nil, logger)
	router := api.NewRouter(handler)

	logger.Info("server starting", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
