package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"airbnb-etl/models"
)

// SQLiteWriter stores cleaned listings and derived frames in a local
// SQLite database file.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path and migrates
// the listings table.
func NewSQLiteWriter(ctx context.Context, path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	sw := &SQLiteWriter{db: db}
	if err := sw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

func (sw *SQLiteWriter) migrate(ctx context.Context) error {
	_, err := sw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id                             INTEGER PRIMARY KEY,
			name                           TEXT    NOT NULL,
			host_id                        INTEGER NOT NULL,
			host_name                      TEXT    NOT NULL,
			neighbourhood_group            TEXT    NOT NULL,
			neighbourhood                  TEXT    NOT NULL,
			latitude                       REAL,
			longitude                      REAL,
			room_type                      TEXT    NOT NULL,
			price                          REAL    NOT NULL,
			minimum_nights                 INTEGER NOT NULL,
			number_of_reviews              INTEGER NOT NULL,
			last_review                    TEXT,
			reviews_per_month              REAL,
			calculated_host_listings_count INTEGER NOT NULL DEFAULT 0,
			availability_365               INTEGER NOT NULL,
			price_category                 TEXT    NOT NULL DEFAULT '',
			length_of_stay_category        TEXT    NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_listings_group ON listings(neighbourhood_group);
	`)
	return err
}

// Write replaces the stored listings inside one transaction.
func (sw *SQLiteWriter) Write(ctx context.Context, listings []models.Listing) error {
	tx, err := sw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(listingColumns)), ",")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO listings ("+strings.Join(listingColumns, ", ")+") VALUES ("+ph+")")
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.ExecContext(ctx, listingArgs(l)...); err != nil {
			return fmt.Errorf("sqlite: insert listing %d: %w", l.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchAll retrieves all stored listings ordered by id.
func (sw *SQLiteWriter) FetchAll(ctx context.Context) ([]models.Listing, error) {
	rows, err := sw.db.QueryContext(ctx,
		"SELECT "+strings.Join(listingColumns, ", ")+" FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// WriteFrame stores a frame as its own table, replacing any previous one.
// The table is named after the frame name without extension; column types
// follow the first non-missing value of each column.
func (sw *SQLiteWriter) WriteFrame(name string, f *models.Frame) error {
	ctx := context.Background()
	table := tableName(name)

	defs := make([]string, len(f.Columns))
	quoted := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
		defs[i] = quoted[i] + " " + sqliteType(f.Column(c))
	}

	tx, err := sw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
		return fmt.Errorf("sqlite: drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", table, err)
	}
	ph := strings.TrimRight(strings.Repeat("?,", len(f.Columns)), ",")
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", table, strings.Join(quoted, ", "), ph))
	if err != nil {
		return fmt.Errorf("sqlite: prepare %s: %w", table, err)
	}
	defer stmt.Close()

	for _, r := range f.Rows {
		args := make([]any, len(r))
		for i, v := range r {
			args[i] = sqliteValue(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}

func tableName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(name)
}

func sqliteType(values []any) string {
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case int, int64, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func sqliteValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		return t
	case int, int64, string:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case time.Time:
		return t.Format(models.ReviewDateLayout)
	}
	return models.FormatValue(v)
}
