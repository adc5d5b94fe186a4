// Package store persists scraped records and run statistics to SQLite.
// It is an append-only sink: the pipeline returns records in memory and the
// entry point batches them here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FuturizeRush/google-maps-scraper-apify/dbopen"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// Schema is applied on Open. One row per (run, identity); re-running a
// query under a new run ID never overwrites earlier results.
const Schema = `
CREATE TABLE IF NOT EXISTS businesses (
    run_id        TEXT NOT NULL,
    identity      TEXT NOT NULL,
    name          TEXT NOT NULL,
    latitude      REAL,
    longitude     REAL,
    rating        REAL NOT NULL DEFAULT 0,
    review_count  INTEGER NOT NULL DEFAULT 0,
    address       TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    website       TEXT NOT NULL DEFAULT '',
    business_type TEXT NOT NULL DEFAULT '',
    price_level   TEXT NOT NULL DEFAULT '',
    hours         TEXT NOT NULL DEFAULT '[]',
    email         TEXT NOT NULL DEFAULT '',
    emails        TEXT NOT NULL DEFAULT '[]',
    source_url    TEXT NOT NULL DEFAULT '',
    query         TEXT NOT NULL DEFAULT '',
    search_url    TEXT NOT NULL DEFAULT '',
    scraped_at    TEXT NOT NULL,
    PRIMARY KEY (run_id, identity)
);

CREATE INDEX IF NOT EXISTS idx_businesses_query ON businesses(query);

CREATE TABLE IF NOT EXISTS run_stats (
    run_id           TEXT NOT NULL,
    query            TEXT NOT NULL DEFAULT '',
    loaded_count     INTEGER NOT NULL DEFAULT 0,
    extracted_count  INTEGER NOT NULL DEFAULT 0,
    scroll_attempts  INTEGER NOT NULL DEFAULT 0,
    emails_extracted INTEGER NOT NULL DEFAULT 0,
    finished_at      TEXT NOT NULL,
    PRIMARY KEY (run_id, query)
);
`

// Store wraps the records database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path with the schema applied.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an already-open database. Used in tests with dbopen.OpenMemory.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecords appends one run's records in a single transaction.
func (s *Store) SaveRecords(ctx context.Context, runID string, records []record.Record) error {
	if len(records) == 0 {
		return nil
	}
	return dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO businesses
			(run_id, identity, name, latitude, longitude, rating, review_count,
			 address, phone, website, business_type, price_level, hours,
			 email, emails, source_url, query, search_url, scraped_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			b := r.Business
			var lat, lng any
			if b.Coordinates != nil {
				lat, lng = b.Coordinates.Latitude, b.Coordinates.Longitude
			}
			hours, err := marshalList(b.Hours)
			if err != nil {
				return fmt.Errorf("store: marshal hours for %s: %w", b.Identity, err)
			}
			emails, err := marshalList(b.Emails)
			if err != nil {
				return fmt.Errorf("store: marshal emails for %s: %w", b.Identity, err)
			}
			if _, err := stmt.ExecContext(ctx,
				runID, b.Identity, b.Name, lat, lng, b.Rating, b.ReviewCount,
				b.Address, b.Phone, b.Website, b.BusinessType, b.PriceLevel, hours,
				b.Email, emails, b.SourceURL, r.Query, r.SearchURL,
				r.ScrapedAt.UTC().Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("store: insert %s: %w", b.Identity, err)
			}
		}
		return nil
	})
}

// marshalList encodes a string slice so the column is always a JSON array;
// a nil slice must store "[]", never "null".
func marshalList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveStats records the counters of one finished query run.
func (s *Store) SaveStats(ctx context.Context, runID, query string, st record.Stats) error {
	_, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO run_stats
		(run_id, query, loaded_count, extracted_count, scroll_attempts, emails_extracted, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, query, st.LoadedCount, st.ExtractedCount, st.ScrollAttempts, st.EmailsExtracted,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: save stats: %w", err)
	}
	return nil
}

// CountRecords returns the number of stored businesses for a run.
func (s *Store) CountRecords(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}
