package csv_test

import (
	"strings"
	"testing"

	pcsv "stationload/internal/parser/csv"
	"stationload/pkg/records"
)

func collect(t *testing.T, p *pcsv.Parser, in string) (rows []records.Record, lines []int, errs int) {
	t.Helper()
	err := p.ReadRows(strings.NewReader(in),
		func(line int, rec records.Record) {
			rows = append(rows, rec)
			lines = append(lines, line)
		},
		func(line int, err error) { errs++ },
	)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	return rows, lines, errs
}

func TestReadRows_Basic(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{TrimSpace: true})
	rows, lines, errs := collect(t, p, "station_id,name,capacity\ns1, Alpha ,10\ns2,Beta,\n")
	if errs != 0 {
		t.Fatalf("errs=%d", errs)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if lines[0] != 2 || lines[1] != 3 {
		t.Fatalf("lines=%v, want [2 3]", lines)
	}
	if rows[0]["name"] != "Alpha" {
		t.Fatalf("name=%q, want Alpha (trimmed)", rows[0]["name"])
	}
	if rows[1]["capacity"] != "" {
		t.Fatalf("capacity=%q, want empty", rows[1]["capacity"])
	}
}

func TestReadRows_BOMStripped(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{})
	rows, _, _ := collect(t, p, "\uFEFFstation_id,name\ns1,Alpha\n")
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(rows))
	}
	if rows[0]["station_id"] != "s1" {
		t.Fatalf("station_id key not found after BOM strip: %v", rows[0])
	}
}

func TestReadRows_HeaderMap(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{
		HeaderMap: map[string]string{"Station ID": "station_id"},
	})
	rows, _, _ := collect(t, p, "Station ID,name\ns1,Alpha\n")
	if rows[0]["station_id"] != "s1" {
		t.Fatalf("header map not applied: %v", rows[0])
	}
}

func TestReadRows_ShortAndLongRows(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{})
	rows, _, _ := collect(t, p, "a,b,c\n1,2\n1,2,3,4\n")
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if _, ok := rows[0]["c"]; ok {
		t.Fatalf("short row should not have key c: %v", rows[0])
	}
	if rows[1]["col_3"] != "4" {
		t.Fatalf("long row extra cell: %v", rows[1])
	}
}

func TestReadRows_QuotedFields(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{})
	rows, _, _ := collect(t, p, "station_id,name\ns1,\"Clark, Dearborn & Lake\"\n")
	if rows[0]["name"] != "Clark, Dearborn & Lake" {
		t.Fatalf("quoted field: %q", rows[0]["name"])
	}
}

func TestReadRows_HeaderErrorIsFatal(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{})
	err := p.ReadRows(strings.NewReader(""), func(int, records.Record) {}, nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadRows_CustomDelimiter(t *testing.T) {
	p := pcsv.NewParser(pcsv.Options{Comma: ';'})
	rows, _, _ := collect(t, p, "station_id;name\ns1;Alpha\n")
	if rows[0]["name"] != "Alpha" {
		t.Fatalf("delimiter not honored: %v", rows[0])
	}
}
