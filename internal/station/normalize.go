package station

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stationload/internal/geom"
	"stationload/pkg/records"
)

// DefaultColumns maps logical record fields to the GBFS-style source headers
// used when no mapping is configured.
var DefaultColumns = map[string]string{
	"station_id":     "station_id",
	"name":           "name",
	"short_name":     "short_name",
	"capacity":       "capacity",
	"system_id":      "system_id",
	"timezone":       "timezone",
	"rental_methods": "rental_methods",
}

// NormalizeError reports a row that cannot produce a valid Record. It carries
// the 1-based CSV line number (header is line 1) for diagnostics.
type NormalizeError struct {
	Line   int
	Reason string
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// Normalizer turns one raw record into a typed station Record. Column lookup
// is exact-match against the configured mapping; absent optional columns map
// to defaults rather than failing. A Normalizer is a pure value and safe to
// share.
type Normalizer struct {
	// Columns maps logical field names (the keys of DefaultColumns) to source
	// header names. Missing entries fall back to DefaultColumns.
	Columns map[string]string

	// Geometry lists the candidate source columns probed for a WKT point
	// string. Empty means geom.DefaultCandidates.
	Geometry []string
}

// Normalize builds a Record from raw. The only hard failure is a missing or
// empty station_id, which breaks the key invariant; everything else degrades
// to lossy defaults (capacity 0, coordinates 0, nil optionals).
func (n Normalizer) Normalize(raw records.Record, line int) (Record, error) {
	id := strings.TrimSpace(raw[n.column("station_id")])
	if id == "" {
		return Record{}, &NormalizeError{Line: line, Reason: "missing station_id"}
	}

	lon, lat := geom.Extract(raw, n.Geometry)

	return Record{
		StationID:     id,
		Name:          raw[n.column("name")],
		ShortName:     optional(raw[n.column("short_name")]),
		Latitude:      lat,
		Longitude:     lon,
		Capacity:      parseCapacity(raw[n.column("capacity")]),
		SystemID:      optional(raw[n.column("system_id")]),
		Timezone:      optional(raw[n.column("timezone")]),
		RentalMethods: optional(raw[n.column("rental_methods")]),
	}, nil
}

func (n Normalizer) column(field string) string {
	if src, ok := n.Columns[field]; ok && src != "" {
		return src
	}
	return DefaultColumns[field]
}

// parseCapacity coerces a capacity cell to a non-negative integer. It accepts
// decimal-looking strings ("12.0" -> 12, truncated); anything non-numeric,
// negative, or absent becomes 0.
func parseCapacity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}

// optional maps an empty cell to nil so the store writes NULL instead of "".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
