package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

// PostgresWriter persists cleaned listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, retrying the ping,
// runs schema migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id                             BIGINT        PRIMARY KEY,
			name                           TEXT          NOT NULL,
			host_id                        BIGINT        NOT NULL,
			host_name                      TEXT          NOT NULL,
			neighbourhood_group            TEXT          NOT NULL,
			neighbourhood                  TEXT          NOT NULL,
			latitude                       DOUBLE PRECISION,
			longitude                      DOUBLE PRECISION,
			room_type                      TEXT          NOT NULL,
			price                          NUMERIC(10,2) NOT NULL,
			minimum_nights                 INTEGER       NOT NULL,
			number_of_reviews              INTEGER       NOT NULL,
			last_review                    DATE,
			reviews_per_month              DOUBLE PRECISION,
			calculated_host_listings_count INTEGER       NOT NULL DEFAULT 0,
			availability_365               INTEGER       NOT NULL,
			price_category                 VARCHAR(16)   NOT NULL DEFAULT '',
			length_of_stay_category        VARCHAR(16)   NOT NULL DEFAULT '',
			loaded_at                      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_group     ON listings(neighbourhood_group);
		CREATE INDEX IF NOT EXISTS idx_listings_room_type ON listings(room_type);
		CREATE INDEX IF NOT EXISTS idx_listings_price     ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_review    ON listings(last_review);
	`)
	return err
}

// Write replaces the stored listings with the given ones inside one
// transaction, inserting in batches.
func (pw *PostgresWriter) Write(ctx context.Context, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 500
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		if err := insertBatch(ctx, tx, listings[i:end]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []models.Listing) error {
	width := len(listingColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*width)

	for idx, l := range batch {
		ph := make([]string, width)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", idx*width+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs, listingArgs(l)...)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(listingColumns, ", "), strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored listings ordered by id.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := pw.db.QueryContext(ctx,
		"SELECT "+strings.Join(listingColumns, ", ")+" FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
