// Package geom extracts coordinates from WKT-style point strings embedded in
// tabular data. Real exports rarely put the geometry in a predictable column,
// so extraction probes a configurable list of candidate field names and treats
// every failure as a zero coordinate rather than an error: geometry is
// enrichment, not a load-blocking requirement.
package geom

import (
	"strconv"
	"strings"

	"stationload/pkg/records"
)

// DefaultCandidates lists the column names probed for a point string, in
// order. The first present, non-empty value wins.
var DefaultCandidates = []string{"lat", "location", "point", "the_geom"}

// ParsePoint parses a textual geometry of the form "Point(<lon> <lat>)".
// Matching is case-insensitive and whitespace-tolerant; the token order is
// longitude then latitude, per the WKT convention. ok is false when s does
// not contain a parseable point.
func ParsePoint(s string) (lon, lat float64, ok bool) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToLower(t), "point") {
		return 0, 0, false
	}
	open := strings.IndexByte(t, '(')
	end := strings.LastIndexByte(t, ')')
	if open < 0 || end < open {
		return 0, 0, false
	}
	fields := strings.Fields(t[open+1 : end])
	if len(fields) < 2 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

// Extract probes the candidate fields of rec and returns the first point that
// parses. It never fails; missing or garbled geometry yields (0, 0).
func Extract(rec records.Record, candidates []string) (lon, lat float64) {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	raw := rec.First(candidates...)
	if raw == "" {
		return 0, 0
	}
	lon, lat, ok := ParsePoint(raw)
	if !ok {
		return 0, 0
	}
	return lon, lat
}
