// Package config defines the JSON-serializable configuration for one
// ingestion run. It is intentionally small and decoded with the standard
// library: a run config can be loaded from disk and passed through the
// program without additional glue, and the built-in defaults reproduce the
// common case (a local SQLite store) with no config file at all.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Run describes a full ingestion run.
type Run struct {
	// Source describes where the input CSV comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into records.
	Parser Parser `json:"parser"`

	// Mapping configures how record fields are located in the source columns.
	Mapping Mapping `json:"mapping"`

	// Storage describes the destination store.
	Storage Storage `json:"storage"`
}

// Source identifies the input file.
type Source struct {
	// Path is the local filesystem path to the CSV file. The CLI positional
	// argument overrides it.
	Path string `json:"path"`
}

// Parser selects parse-time options.
type Parser struct {
	// Options is a free-form map interpreted by the CSV reader. Typical keys:
	//   comma (string), trim_space (bool), header_map (object)
	Options Options `json:"options"`
}

// Mapping controls field lookup during normalization.
type Mapping struct {
	// Columns maps logical station fields (station_id, name, short_name,
	// capacity, system_id, timezone, rental_methods) to source header names.
	// Missing entries use the logical name itself.
	Columns map[string]string `json:"columns,omitempty"`

	// GeometryFields lists the candidate columns probed, in order, for a
	// WKT-style point string. Empty means the built-in candidate list.
	GeometryFields []string `json:"geometry_fields,omitempty"`
}

// Storage selects the destination store.
type Storage struct {
	// Kind selects the storage backend: "sqlite" (default) or "postgres".
	Kind string `json:"kind"`

	// DB configures the selected backend.
	DB DBConfig `json:"db"`
}

// DBConfig configures the store connection.
type DBConfig struct {
	// DSN is the connection string. For SQLite this is a file path or a
	// "file:..." URI; for Postgres a pgx connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`
}

// Default returns the built-in run configuration: a SQLite store in the
// working directory with the conventional table name.
func Default() Run {
	return Run{
		Storage: Storage{
			Kind: "sqlite",
			DB: DBConfig{
				DSN:   "stations.db",
				Table: "station_info",
			},
		},
	}
}

// Load decodes a Run from the JSON file at path, layered over Default so a
// partial config only overrides what it names.
func Load(path string) (Run, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Storage.Kind == "" {
		cfg.Storage.Kind = "sqlite"
	}
	return cfg, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without a third-party configuration library. It performs only minimal type
// coercion and returns the provided default when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character settings such as the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// with string values. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
