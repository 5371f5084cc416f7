//go:build !unix

package procmem

// Read returns an empty sample on platforms without a memory accounting
// source; callers surface the metrics as unavailable.
func Read() Sample { return Sample{} }
