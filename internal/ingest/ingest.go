// Package ingest orchestrates one ingestion run: open the source file,
// stream records through normalization, and hand each normalized station to
// the store gateway. Fault isolation is per row: a malformed record is
// logged with its position and dropped, and processing continues. Only setup
// failures (missing source, unreachable store) abort the run.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zeebo/xxh3"

	"stationload/internal/config"
	"stationload/internal/metrics"
	"stationload/internal/metrics/procmem"
	pcsv "stationload/internal/parser/csv"
	"stationload/internal/source"
	"stationload/internal/station"
	"stationload/internal/storage"
	"stationload/pkg/records"
)

// Result is the immutable summary of one finished run. Counters are only
// meaningful when Run returned without error.
type Result struct {
	// RowsSeen counts raw records read, excluding the header.
	RowsSeen int

	// RowsInserted counts records that produced a new store row.
	RowsInserted int

	// RowsSkipped counts records dropped by row-level faults.
	RowsSkipped int

	// DuplicateKeys counts rows whose station_id repeated an earlier row of
	// the same source file. Diagnostic only; the store decides insertion.
	DuplicateKeys int

	Elapsed time.Duration

	// Memory deltas across the run. MemUSSDelta is only meaningful when
	// MemUSSOK is set; platforms without USS accounting leave it false.
	MemRSSDelta int64
	MemUSSDelta int64
	MemUSSOK    bool
}

// Runtime formats the elapsed wall-clock time for the run report.
func (r Result) Runtime() string {
	return fmt.Sprintf("%.4f seconds", r.Elapsed.Seconds())
}

// MemoryRSS formats the RSS delta for the run report.
func (r Result) MemoryRSS() string { return formatMB(r.MemRSSDelta) }

// MemoryUSS formats the USS delta, or "N/A" where the platform exposes none.
func (r Result) MemoryUSS() string {
	if !r.MemUSSOK {
		return "N/A"
	}
	return formatMB(r.MemUSSDelta)
}

func formatMB(b int64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/(1024*1024))
}

// OutcomeKind classifies the handling of one source row.
type OutcomeKind uint8

const (
	// OutcomeInserted means the row produced a new store row.
	OutcomeInserted OutcomeKind = iota

	// OutcomeDuplicate means the key already existed in the store. This is
	// routine insert-or-ignore behavior, counted as not inserted and never
	// logged as a failure.
	OutcomeDuplicate

	// OutcomeSkipped means the row was dropped; Reason says why.
	OutcomeSkipped
)

// Outcome is the explicit per-row result. Key carries the station_id once
// the row normalized, "" otherwise.
type Outcome struct {
	Kind   OutcomeKind
	Key    string
	Reason string
}

// Runner executes ingestion runs for a fixed configuration.
type Runner struct {
	cfg config.Run
	job string
}

// New returns a Runner for cfg.
func New(cfg config.Run) *Runner {
	return &Runner{cfg: cfg, job: "stations"}
}

// Run performs one full ingestion pass over the configured source and
// returns the finished Result.
//
// Resource ordering matters for the abort path: the source file is opened
// before the store, so a missing file leaves an absent store uncreated. The
// store connection is scoped to this call and released on every path.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	before := procmem.Read()
	var res Result

	var runErr error
	defer func() { metrics.RecordRun(r.job, runErr, time.Since(start)) }()

	src, err := source.NewLocal(r.cfg.Source.Path).Open(ctx)
	if err != nil {
		runErr = fmt.Errorf("source: %w", err)
		return res, runErr
	}
	defer src.Close()

	repo, err := storage.Open(ctx, r.cfg.Storage.Kind, storage.Config{
		DSN:   r.cfg.Storage.DB.DSN,
		Table: r.cfg.Storage.DB.Table,
	})
	if err != nil {
		runErr = fmt.Errorf("storage: %w", err)
		return res, runErr
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		runErr = fmt.Errorf("storage: %w", err)
		return res, runErr
	}

	opt := r.cfg.Parser.Options
	parser := pcsv.NewParser(pcsv.Options{
		Comma:     opt.Rune("comma", ','),
		TrimSpace: opt.Bool("trim_space", true),
		HeaderMap: opt.StringMap("header_map"),
	})
	norm := station.Normalizer{
		Columns:  r.cfg.Mapping.Columns,
		Geometry: r.cfg.Mapping.GeometryFields,
	}

	seenKeys := make(map[uint64]struct{})
	err = parser.ReadRows(src,
		func(line int, raw records.Record) {
			res.RowsSeen++
			oc := r.processRow(ctx, repo, norm, line, raw)

			if oc.Key != "" {
				h := xxh3.HashString(oc.Key)
				if _, dup := seenKeys[h]; dup {
					res.DuplicateKeys++
				} else {
					seenKeys[h] = struct{}{}
				}
			}

			switch oc.Kind {
			case OutcomeInserted:
				res.RowsInserted++
			case OutcomeDuplicate:
				// expected; silently counted as not inserted
			case OutcomeSkipped:
				res.RowsSkipped++
				log.Printf("skipping row %d: %s", line, oc.Reason)
			}
		},
		func(line int, err error) {
			res.RowsSeen++
			res.RowsSkipped++
			log.Printf("skipping row %d: %v", line, err)
		},
	)
	if err != nil {
		runErr = fmt.Errorf("read %s: %w", r.cfg.Source.Path, err)
		return res, runErr
	}

	res.Elapsed = time.Since(start)
	after := procmem.Read()
	res.MemRSSDelta = after.RSSBytes - before.RSSBytes
	if before.USSOK && after.USSOK {
		res.MemUSSDelta = after.USSBytes - before.USSBytes
		res.MemUSSOK = true
	}

	metrics.RecordRow(r.job, "seen", int64(res.RowsSeen))
	metrics.RecordRow(r.job, "inserted", int64(res.RowsInserted))
	metrics.RecordRow(r.job, "skipped", int64(res.RowsSkipped))
	metrics.RecordRow(r.job, "duplicate", int64(res.DuplicateKeys))
	return res, nil
}

// processRow handles exactly one raw record. Nothing may escape the row
// boundary: normalization failures and store faults become skip outcomes,
// and a panic while handling the row is recovered into one as well.
func (r *Runner) processRow(
	ctx context.Context,
	repo storage.Repository,
	norm station.Normalizer,
	line int,
	raw records.Record,
) (oc Outcome) {
	defer func() {
		if p := recover(); p != nil {
			oc = Outcome{Kind: OutcomeSkipped, Reason: fmt.Sprintf("panic: %v", p)}
		}
	}()

	rec, err := norm.Normalize(raw, line)
	if err != nil {
		return Outcome{Kind: OutcomeSkipped, Reason: err.Error()}
	}

	inserted, err := repo.InsertOrIgnore(ctx, rec)
	if err != nil {
		return Outcome{Kind: OutcomeSkipped, Key: rec.StationID, Reason: fmt.Sprintf("store: %v", err)}
	}
	if !inserted {
		return Outcome{Kind: OutcomeDuplicate, Key: rec.StationID}
	}
	return Outcome{Kind: OutcomeInserted, Key: rec.StationID}
}
