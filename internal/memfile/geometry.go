package memfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// Page size bounds and default, per spec.md §4.E. The default is used
// whenever a device block-size probe is unavailable or out of bounds.
const (
	MinPageSize     = 512
	MaxPageSize     = 65536
	DefaultPageSize = 4096
)

// deviceBlockSize probes the optimal I/O block size of the filesystem
// backing f, the same unix.Fstat-based idiom bbolt-style storage engines
// use to pick a page size. It returns ok=false if the probe fails or the
// reported size falls outside [MinPageSize, MaxPageSize], in which case
// the caller keeps DefaultPageSize — spec.md §4.E's explicit fallback.
func deviceBlockSize(f *os.File) (int, bool) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return 0, false
	}
	bs := int(st.Blksize)
	if bs < MinPageSize || bs > MaxPageSize {
		return 0, false
	}
	return bs, true
}
