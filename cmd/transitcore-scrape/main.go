// Command transitcore-scrape fetches an HTML timetable page, parses it
// with internal/adapter/htmlfeed, and stages the resulting tuples into
// Postgres via database/sql + lib/pq, mirroring the teacher's
// scrapers/import_schedules.go (JSON-to-SQL import inside one
// transaction).
package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"github.com/antigravity/transitcore/internal/adapter/htmlfeed"
	"github.com/antigravity/transitcore/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	url := flag.String("url", "", "timetable page to scrape")
	flag.Parse()
	if *url == "" {
		logger.Error("-url is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	body, err := htmlfeed.Fetch(*url)
	if err != nil {
		logger.Error("fetch failed", "url", *url, "error", err)
		os.Exit(1)
	}
	defer body.Close()

	tuples, err := htmlfeed.ParseTimetable(body)
	if err != nil {
		logger.Error("parse failed", "error", err)
		os.Exit(1)
	}
	logger.Info("parsed timetable", "rows", len(tuples))

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		logger.Error("unable to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := stage(db, tuples); err != nil {
		logger.Error("staging failed", "error", err)
		os.Exit(1)
	}
	logger.Info("staged scraped schedules", "rows", len(tuples))
}

// stage inserts every tuple into schedule_staging inside one
// transaction, the same prepare-once/exec-per-row shape
// import_schedules.go used for its manual-schedule import.
func stage(db *sql.DB, tuples []htmlfeed.Tuple) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO schedule_staging (from_stop, to_stop, departure_seconds, travel_seconds)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tuples {
		if _, err := stmt.Exec(t.FromStop, t.ToStop, t.Departure, t.TravelTime); err != nil {
			return err
		}
	}

	return tx.Commit()
}
