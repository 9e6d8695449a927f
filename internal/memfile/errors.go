package memfile

import "errors"

// Sentinel errors, one per failure mode named in spec.md §6.3/§7. Call
// sites wrap these with fmt.Errorf("...: %w", err) the way pager.go does
// throughout the teacher package, so callers can still errors.Is against
// the sentinel after a path/errno gets folded in.
var (
	ErrSwapClose      = errors.New("memfile: error closing swap file")
	ErrSwapExists     = errors.New("memfile: swap file already exists")
	ErrSeekRead       = errors.New("memfile: seek error reading swap file")
	ErrReadError      = errors.New("memfile: read error in swap file")
	ErrSeekWrite      = errors.New("memfile: seek error writing swap file")
	ErrWriteError     = errors.New("memfile: write error in swap file")
	ErrBlockNotLocked = errors.New("memfile: block was not locked")

	// ErrNoSwapFile is not part of spec.md's wire taxonomy; it's the Go
	// sentinel returned when an operation that requires a swap file (Sync)
	// is asked to run against a memory-only MemFile.
	ErrNoSwapFile = errors.New("memfile: no swap file")
)
