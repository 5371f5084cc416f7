// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5. Insert-or-ignore semantics map onto ON CONFLICT DO NOTHING against the
// station_id primary key.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stationload/internal/station"
	"stationload/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	// DSN is the connection string for pgxpool (e.g. "postgresql://...").
	DSN string

	// Table is the target table name, optionally schema-qualified
	// (e.g. "public.station_info").
	Table string
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool      *pgxpool.Pool
	cfg       Config
	insertSQL string
}

// NewRepository connects to Postgres and returns a Repository plus a Close
// function for cleanup. The connection is verified with a short ping so an
// unreachable store fails before any rows are processed.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("postgres: table must not be empty")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}

	r := &Repository{pool: pool, cfg: cfg, insertSQL: buildInsertSQL(cfg.Table)}
	return r, func() { pool.Close() }, nil
}

// EnsureSchema creates the station table if it does not already exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, buildCreateTableSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", r.cfg.Table, err)
	}
	return nil
}

// InsertOrIgnore adds rec unless a row with the same station_id exists.
// A conflicting key yields zero affected rows and no error.
func (r *Repository) InsertOrIgnore(ctx context.Context, rec station.Record) (bool, error) {
	ct, err := r.pool.Exec(ctx, r.insertSQL, storage.Values(rec)...)
	if err != nil {
		return false, fmt.Errorf("postgres: insert: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// stationDDL pairs each destination column with its Postgres type, in
// storage.Columns order.
var stationDDL = []struct {
	name    string
	sqlType string
}{
	{"station_id", "TEXT PRIMARY KEY"},
	{"name", "TEXT"},
	{"short_name", "TEXT"},
	{"lat", "DOUBLE PRECISION"},
	{"lon", "DOUBLE PRECISION"},
	{"capacity", "INTEGER"},
	{"system_id", "TEXT"},
	{"timezone", "TEXT"},
	{"rental_methods", "TEXT"},
}

func buildCreateTableSQL(table string) string {
	cols := make([]string, 0, len(stationDDL))
	for _, c := range stationDDL {
		cols = append(cols, pgIdent(c.name)+" "+c.sqlType)
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		pgFQN(table),
		strings.Join(cols, ",\n  "),
	)
}

func buildInsertSQL(table string) string {
	cols := make([]string, len(storage.Columns))
	args := make([]string, len(storage.Columns))
	for i, c := range storage.Columns {
		cols[i] = pgIdent(c)
		args[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		pgFQN(table),
		strings.Join(cols, ", "),
		strings.Join(args, ", "),
		pgIdent("station_id"),
	)
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// pgFQN quotes a possibly schema-qualified name segment by segment.
func pgFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, pgIdent(p))
	}
	return strings.Join(out, ".")
}
