// Package records defines the raw row type passed between the parser and the
// rest of the pipeline.
package records

// Record is one raw tabular row keyed by header name. Values are the field
// text exactly as read from the source; a missing column is simply an absent
// key, never an empty-string entry.
type Record map[string]string

// First returns the value of the first listed key that is present and
// non-empty, or "" when none match.
func (r Record) First(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
