//go:build unix && !linux

package procmem

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Read samples process memory through getrusage. Only peak RSS is available
// here; USS stays marked unavailable.
func Read() Sample {
	var s Sample
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return s
	}
	// Darwin reports Maxrss in bytes; the BSDs report kilobytes.
	if runtime.GOOS == "darwin" {
		s.RSSBytes = int64(ru.Maxrss)
	} else {
		s.RSSBytes = int64(ru.Maxrss) * 1024
	}
	return s
}
