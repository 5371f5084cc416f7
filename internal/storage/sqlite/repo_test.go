package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"stationload/internal/station"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "stations.db")
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: dsn, Table: "station_info"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(closeFn)
	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return r
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "station_info"`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	r := openTestRepo(t)
	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
}

func TestInsertOrIgnore(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	short := "13224"
	rec := station.Record{
		StationID: "s1",
		Name:      "Alpha",
		ShortName: &short,
		Latitude:  43.06,
		Longitude: 141.35,
		Capacity:  12,
	}

	ins, err := r.InsertOrIgnore(ctx, rec)
	if err != nil || !ins {
		t.Fatalf("first insert: inserted=%v err=%v", ins, err)
	}

	// Same key again: ignored, no error, existing fields untouched.
	rec.Name = "Alpha Renamed"
	ins, err = r.InsertOrIgnore(ctx, rec)
	if err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}
	if ins {
		t.Fatal("duplicate key should not insert")
	}

	var name string
	var lat, lon float64
	var capacity int
	var sysID *string
	err = r.db.QueryRow(
		`SELECT "name", "lat", "lon", "capacity", "system_id" FROM "station_info" WHERE "station_id" = ?`, "s1",
	).Scan(&name, &lat, &lon, &capacity, &sysID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "Alpha" {
		t.Fatalf("name=%q; duplicate must not update", name)
	}
	if lat != 43.06 || lon != 141.35 || capacity != 12 {
		t.Fatalf("row=(%v, %v, %v)", lat, lon, capacity)
	}
	if sysID != nil {
		t.Fatalf("system_id=%v, want NULL", *sysID)
	}
	if n := countRows(t, r.db); n != 1 {
		t.Fatalf("rows=%d, want 1", n)
	}
}

func TestNewRepository_EmptyConfig(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{Table: "t"}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
	if _, _, err := NewRepository(context.Background(), Config{DSN: "x.db"}); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestBuildSQL(t *testing.T) {
	ddl := buildCreateTableSQL("station_info")
	if !strings.HasPrefix(ddl, `CREATE TABLE IF NOT EXISTS "station_info"`) {
		t.Fatalf("ddl=%q", ddl)
	}
	if !strings.Contains(ddl, `"station_id" TEXT PRIMARY KEY`) {
		t.Fatalf("ddl missing primary key: %q", ddl)
	}

	ins := buildInsertSQL("station_info")
	if !strings.HasPrefix(ins, `INSERT OR IGNORE INTO "station_info"`) {
		t.Fatalf("insert=%q", ins)
	}
	if got := strings.Count(ins, "?"); got != 9 {
		t.Fatalf("placeholders=%d, want 9", got)
	}
}
