package config

import "fmt"

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding with a JSON-path-ish location.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// knownStorageKinds lists the backends the binary links in.
var knownStorageKinds = map[string]bool{
	"sqlite":   true,
	"postgres": true,
}

// knownColumnFields lists the logical fields Mapping.Columns may remap.
var knownColumnFields = map[string]bool{
	"station_id":     true,
	"name":           true,
	"short_name":     true,
	"capacity":       true,
	"system_id":      true,
	"timezone":       true,
	"rental_methods": true,
}

// ValidateRun checks a Run for problems that would make the run fail or
// behave surprisingly. Errors make the config unusable; warnings do not.
func ValidateRun(cfg Run) []Issue {
	var issues []Issue
	errf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityError, path, fmt.Sprintf(format, a...)})
	}
	warnf := func(path, format string, a ...any) {
		issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf(format, a...)})
	}

	if cfg.Source.Path == "" {
		errf("source.path", "source path is required")
	}

	if !knownStorageKinds[cfg.Storage.Kind] {
		errf("storage.kind", "unknown storage kind %q", cfg.Storage.Kind)
	}
	if cfg.Storage.DB.DSN == "" {
		errf("storage.db.dsn", "dsn is required")
	}
	if cfg.Storage.DB.Table == "" {
		errf("storage.db.table", "table is required")
	}

	if s := cfg.Parser.Options.String("comma", ","); len([]rune(s)) > 1 {
		warnf("parser.options.comma", "delimiter %q is longer than one character; only the first rune is used", s)
	}

	for field, col := range cfg.Mapping.Columns {
		if !knownColumnFields[field] {
			warnf("mapping.columns."+field, "unknown field %q is ignored", field)
		}
		if col == "" {
			warnf("mapping.columns."+field, "empty column name falls back to the default")
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
