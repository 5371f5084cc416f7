package procmem

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Read samples the current process memory. RSS comes from /proc/self/status
// (VmRSS), falling back to getrusage peak RSS when /proc is unreadable. USS
// is the sum of the Private_* fields of /proc/self/smaps_rollup; kernels or
// mounts without smaps_rollup leave it marked unavailable.
func Read() Sample {
	var s Sample

	if kb, ok := statusField("/proc/self/status", "VmRSS:"); ok {
		s.RSSBytes = kb * 1024
	} else {
		var ru unix.Rusage
		if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err == nil {
			s.RSSBytes = int64(ru.Maxrss) * 1024 // peak, not current; best effort
		}
	}

	if kb, ok := privateSum("/proc/self/smaps_rollup"); ok {
		s.USSBytes = kb * 1024
		s.USSOK = true
	}

	return s
}

// statusField returns the kB value of the named field in a /proc status-style
// file.
func statusField(path, field string) (int64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, field) {
			continue
		}
		return parseKB(line[len(field):])
	}
	return 0, false
}

// privateSum adds up the Private_Clean / Private_Dirty / Private_Hugetlb
// lines of an smaps_rollup-style file.
func privateSum(path string) (int64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	var total int64
	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "Private_") {
			continue
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			if kb, ok := parseKB(line[i+1:]); ok {
				total += kb
				found = true
			}
		}
	}
	return total, found
}

func parseKB(s string) (int64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
