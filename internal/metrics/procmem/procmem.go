// Package procmem reads process memory statistics for run reporting.
//
// Two accounting metrics are sampled: resident set size (RSS) and unique set
// size (USS). USS is not exposed on every platform; a Sample marks it
// unavailable instead of silently reporting zero. Reading never fails loudly:
// a platform or permission problem degrades the sample, it does not abort the
// caller.
package procmem

// Sample is a point-in-time process memory reading.
type Sample struct {
	// RSSBytes is the resident set size in bytes.
	RSSBytes int64

	// USSBytes is the unique set size in bytes. Only valid when USSOK.
	USSBytes int64

	// USSOK reports whether USSBytes carries a real reading.
	USSOK bool
}
