// Package storage contains the store-agnostic gateway contract and the
// backend factory registry. Concrete backends live in subpackages and
// register themselves at init time; callers select one by kind without
// importing it directly.
package storage

import (
	"context"
	"fmt"
	"sync"

	"stationload/internal/station"
)

// Config holds the backend-independent connection settings.
type Config struct {
	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name. Empty means DefaultTable.
	Table string
}

// DefaultTable is the conventional station table name.
const DefaultTable = "station_info"

// Columns is the ordered destination column list for the station table.
// Backends use it both for DDL and for insert statements.
var Columns = []string{
	"station_id", "name", "short_name", "lat", "lon",
	"capacity", "system_id", "timezone", "rental_methods",
}

// Values flattens a station record into insert arguments aligned to Columns.
func Values(rec station.Record) []any {
	return []any{
		rec.StationID, rec.Name, rec.ShortName, rec.Latitude, rec.Longitude,
		rec.Capacity, rec.SystemID, rec.Timezone, rec.RentalMethods,
	}
}

// Repository is the store gateway owned by one ingestion run.
//
// InsertOrIgnore reports true when a new row was added and false when a row
// with the same station_id already existed; the duplicate case is routine,
// not an error. Any returned error is a row-level fault the caller may skip
// past, except for connection loss, which surfaces on every subsequent call.
type Repository interface {
	// EnsureSchema idempotently creates the destination table. Safe to call
	// on every run.
	EnsureSchema(ctx context.Context) error

	// InsertOrIgnore attempts to add rec, keyed by station_id.
	InsertOrIgnore(ctx context.Context, rec station.Record) (inserted bool, err error)

	// Close releases the connection. Safe to call after a failed run.
	Close()
}

// Factory opens a Repository for a backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the Factory for kind. It is called from
// backend packages' init functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// Open locates the Factory for kind and opens the store. Callers do not need
// to know which backend they are using.
func Open(ctx context.Context, kind string, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", kind)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	return fn(ctx, cfg)
}
