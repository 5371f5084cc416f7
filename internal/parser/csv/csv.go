// Package csv implements a streaming CSV reader for the ingestion pipeline.
// It never buffers the whole input: each data row is handed to a callback as
// a header-keyed record, and rows the underlying reader cannot parse are
// soft-failed through an error callback so a single bad line cannot abort the
// stream.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"stationload/pkg/records"
)

// Options configures the reader. All fields are optional; zero values get
// sensible defaults.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// HeaderMap renames source headers to canonical keys. Lookup is exact,
	// case-sensitive string match; headers without an entry pass through
	// unchanged.
	HeaderMap map[string]string
}

// Parser reads delimited input according to Options. It is safe to reuse
// across inputs but not concurrently.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// RowFunc receives one parsed data row together with its 1-based line number
// in the source (the header is line 1, so data starts at 2).
type RowFunc func(line int, rec records.Record)

// ErrFunc receives recoverable row-level parse errors.
type ErrFunc func(line int, err error)

// ReadRows streams CSV records from r. The first row is the header; each
// following row becomes a records.Record and is passed to fn. Rows that fail
// to parse are reported to onErr and skipped. The only hard failure is an
// unreadable header, which makes the whole source unusable.
//
// A UTF-8 byte-order mark at the start of the input is tolerated and
// stripped before decoding.
func (p *Parser) ReadRows(r io.Reader, fn RowFunc, onErr ErrFunc) error {
	// BOMOverride switches to the indicated encoding when a BOM is present
	// and otherwise falls back to plain UTF-8.
	src := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(src)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.ReuseRecord = true
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // width enforced by the consumer, not the reader

	line := 0
	read := func() ([]string, error) { line++; return cr.Read() }

	hdr, err := read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	headers := p.canonicalHeaders(hdr)

	for {
		row, err := read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if onErr != nil {
				onErr(line, err)
			}
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = val
		}
		fn(line, rec)
	}
}

// canonicalHeaders applies HeaderMap and trims surrounding whitespace from
// header cells. Matching stays exact beyond that: headers are not case-folded
// or slugged, because downstream column lookup is by exact string.
func (p *Parser) canonicalHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := p.opt.HeaderMap[c]; ok && m != "" {
			c = m
		}
		res[i] = c
	}
	return res
}

// keyFor returns the column key for index idx, synthesizing "col_N" for cells
// beyond the header width.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}
