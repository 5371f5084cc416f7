// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It is the default backend: the store is a single local file
// created on demand, which fits a one-shot ingestion run.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Pure-Go SQLite driver; no cgo required.
	_ "modernc.org/sqlite"

	"stationload/internal/station"
	"stationload/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:stations.db?cache=shared"
	//   "stations.db"
	DSN string

	// Table is the destination table name, e.g. "station_info".
	Table string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db        *sql.DB
	cfg       Config
	insertSQL string
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup. Opening pings with a short
// timeout to fail fast on invalid DSNs.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys by default; ignore error if driver doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	r := &Repository{db: db, cfg: cfg, insertSQL: buildInsertSQL(cfg.Table)}
	return r, func() { db.Close() }, nil
}

// EnsureSchema creates the station table if it does not already exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, buildCreateTableSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("sqlite: create table %s: %w", r.cfg.Table, err)
	}
	return nil
}

// InsertOrIgnore adds rec unless a row with the same station_id exists.
// Each statement runs in its own implicit transaction, so an interrupted run
// leaves only whole rows behind.
func (r *Repository) InsertOrIgnore(ctx context.Context, rec station.Record) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.insertSQL, storage.Values(rec)...)
	if err != nil {
		return false, fmt.Errorf("sqlite: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return n > 0, nil
}

// stationDDL pairs each destination column with its SQLite type, in
// storage.Columns order. station_id carries the primary key.
var stationDDL = []struct {
	name    string
	sqlType string
}{
	{"station_id", "TEXT PRIMARY KEY"},
	{"name", "TEXT"},
	{"short_name", "TEXT"},
	{"lat", "REAL"},
	{"lon", "REAL"},
	{"capacity", "INTEGER"},
	{"system_id", "TEXT"},
	{"timezone", "TEXT"},
	{"rental_methods", "TEXT"},
}

// buildCreateTableSQL returns the idempotent DDL for the station table:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "station_id" TEXT PRIMARY KEY,
//	  ...
//	);
func buildCreateTableSQL(table string) string {
	cols := make([]string, 0, len(stationDDL))
	for _, c := range stationDDL {
		cols = append(cols, quoteIdent(c.name)+" "+c.sqlType)
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteIdent(table),
		strings.Join(cols, ",\n  "),
	)
}

// buildInsertSQL returns the INSERT OR IGNORE statement aligned to
// storage.Columns.
func buildInsertSQL(table string) string {
	cols := make([]string, len(storage.Columns))
	placeholders := make([]string, len(storage.Columns))
	for i, c := range storage.Columns {
		cols[i] = quoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
