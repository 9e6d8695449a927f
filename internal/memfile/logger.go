package memfile

// Logger is the minimal sink MemFile needs for the throttled write-error
// message (spec.md §4.F.4) and pressure-release reporting. *log.Logger
// satisfies it directly; a nil Logger is a silent no-op, since most of
// this package's tests never want log output.
type Logger interface {
	Printf(format string, args ...any)
}

func (mf *MemFile) logf(format string, args ...any) {
	if mf.logger == nil {
		return
	}
	mf.logger.Printf(format, args...)
}
