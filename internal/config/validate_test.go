package config

import (
	"strings"
	"testing"
)

func findIssue(issues []Issue, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidateRun_OK(t *testing.T) {
	cfg := Default()
	cfg.Source.Path = "stations.csv"
	if issues := ValidateRun(cfg); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateRun_Errors(t *testing.T) {
	cfg := Run{Storage: Storage{Kind: "oracle"}}
	issues := ValidateRun(cfg)
	if !HasErrors(issues) {
		t.Fatal("expected errors")
	}
	for _, path := range []string{"source.path", "storage.kind", "storage.db.dsn", "storage.db.table"} {
		iss := findIssue(issues, path)
		if iss == nil || iss.Severity != SeverityError {
			t.Fatalf("missing error for %s in %v", path, issues)
		}
	}
}

func TestValidateRun_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Source.Path = "stations.csv"
	cfg.Parser.Options = Options{"comma": ";;"}
	cfg.Mapping.Columns = map[string]string{"bogus_field": "x", "capacity": ""}

	issues := ValidateRun(cfg)
	if HasErrors(issues) {
		t.Fatalf("warnings only expected, got %v", issues)
	}
	if len(issues) != 3 {
		t.Fatalf("issues=%v, want 3 warnings", issues)
	}
	if iss := findIssue(issues, "mapping.columns.bogus_field"); iss == nil {
		t.Fatalf("missing unknown-field warning: %v", issues)
	}
}

func TestIssueString(t *testing.T) {
	s := Issue{SeverityError, "storage.kind", "unknown storage kind \"oracle\""}.String()
	if !strings.HasPrefix(s, "error: storage.kind:") {
		t.Fatalf("String()=%q", s)
	}
}
