// Command stationload ingests one station CSV file into a relational store
// and prints a run report. It exits non-zero on a missing file or any other
// setup failure; row-level skips are logged and do not affect the exit code.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"stationload/internal/config"
	"stationload/internal/ingest"

	// register all storage backends with the factory.
	_ "stationload/internal/storage/all"
)

func main() {
	var (
		cfgPath string
		kind    string
		dsn     string
		table   string
	)
	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional; defaults cover a local sqlite store)")
	flag.StringVar(&kind, "storage", "", "storage kind override (sqlite, postgres)")
	flag.StringVar(&dsn, "db", "", "store DSN override")
	flag.StringVar(&table, "table", "", "destination table override")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
	}
	cfg.Source.Path = flag.Arg(0)
	if kind != "" {
		cfg.Storage.Kind = kind
	}
	if dsn != "" {
		cfg.Storage.DB.DSN = dsn
	}
	if table != "" {
		cfg.Storage.DB.Table = table
	}

	issues := config.ValidateRun(cfg)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}

	if *verbose {
		log.Printf("run: source=%s storage=%s table=%s",
			cfg.Source.Path, cfg.Storage.Kind, cfg.Storage.DB.Table)
	}

	res, err := ingest.New(cfg).Run(context.Background())
	if err != nil {
		fatalf("%v", err)
	}

	printReport(os.Stdout, res)
}

// printReport writes the human-readable run summary block.
func printReport(w io.Writer, res ingest.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Processing Report ---")
	fmt.Fprintf(w, "Total rows in CSV:     %d\n", res.RowsSeen)
	fmt.Fprintf(w, "Rows inserted into DB: %d\n", res.RowsInserted)
	fmt.Fprintf(w, "Rows skipped:          %d\n", res.RowsSkipped)
	fmt.Fprintf(w, "Duplicate keys in CSV: %d\n", res.DuplicateKeys)
	fmt.Fprintf(w, "Total runtime:         %s\n", res.Runtime())
	fmt.Fprintf(w, "Memory RSS consumed:   %s\n", res.MemoryRSS())
	fmt.Fprintf(w, "Memory USS consumed:   %s\n", res.MemoryUSS())
	fmt.Fprintln(w, "-------------------------")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path_to_csv_file>\n", os.Args[0])
	flag.PrintDefaults()
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
