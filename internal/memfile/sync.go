package memfile

import "fmt"

// SyncFlags controls which blocks Sync writes and how it behaves while
// doing so, per spec.md §4.H.
type SyncFlags uint8

const (
	// SyncAll includes memory-only (negative) blocks, forcing each one
	// through TransAdd before it can be written.
	SyncAll SyncFlags = 1 << iota
	// SyncStop checks for available input (rather than a pending
	// interrupt) between blocks and stops early if there is any, so a
	// sync never makes the editor feel unresponsive to a waiting
	// keystroke.
	SyncStop
	// SyncFlush issues an fsync after the write walk completes.
	SyncFlush
	// SyncZero restricts the walk to block zero only, used when a caller
	// just wants the header block flushed immediately.
	SyncZero
)

// Interrupter lets Sync cooperate with an external interrupt/input-ready
// signal, the same save/clear/restore dance original_source's mf_sync
// does around got_int (lines 377–436): the incoming interrupt state is
// saved and cleared before the walk, then ORed back in afterward so a
// pre-existing pending interrupt survives a sync that wasn't itself
// interrupted. A nil Interrupter makes Sync run straight through.
type Interrupter interface {
	// CharAvailable reports whether external input is ready now; only
	// consulted when SyncStop is set.
	CharAvailable() bool
	// Interrupted reports whether an interrupt is currently pending.
	Interrupted() bool
	// ClearInterrupted clears the pending-interrupt signal, returning its
	// value before clearing.
	ClearInterrupted() bool
	// SetInterrupted sets (or clears) the pending-interrupt signal.
	SetInterrupted(bool)
}

// Sync writes dirty blocks to the swap file according to flags, per
// spec.md §4.H. It returns the first write failure encountered (a second
// failure aborts the walk early rather than retrying every remaining
// block against an apparently broken disk). The MemFile is marked CLEAN
// only if the walk both succeeded and ran to completion; an early stop
// via SyncStop/an interrupt leaves it DIRTY even though no error
// occurred, so a later sync still has something to do.
func (mf *MemFile) Sync(flags SyncFlags, interrupt Interrupter) error {
	if mf.file == nil {
		// Nothing to flush: a memory-only MemFile has no blocks that can
		// ever fall behind a swap file, so it is considered clean rather
		// than left DIRTY forever, matching mf_sync's ml_upd_block0 path.
		mf.dirty = Clean
		return ErrNoSwapFile
	}

	var savedInterrupt bool
	if interrupt != nil {
		savedInterrupt = interrupt.ClearInterrupted()
	}

	var failErr error
	completed := true

	mf.index.each(func(nr BlockNr, h *BlockHeader) bool {
		if flags&SyncAll == 0 && nr < 0 {
			return true
		}
		if !h.flags.Dirty() {
			return true
		}
		if flags&SyncZero != 0 && nr != 0 {
			return true
		}
		// After a failure, restrict further attempts to blocks that
		// still fit within the file's current footprint, so a broken
		// disk can't be driven into extending the file indefinitely.
		if failErr != nil && !(nr >= 0 && nr < mf.infileCount) {
			return true
		}

		if err := mf.writeBlock(h); err != nil {
			if failErr != nil {
				completed = false
				return false
			}
			failErr = err
		}

		if flags&SyncStop != 0 {
			if interrupt != nil && interrupt.CharAvailable() {
				completed = false
				return false
			}
		} else if interrupt != nil && interrupt.Interrupted() {
			completed = false
			return false
		}
		return true
	})

	if failErr == nil && completed {
		mf.dirty = Clean
	}

	if flags&SyncFlush != 0 {
		if err := mf.file.Sync(); err != nil && failErr == nil {
			failErr = fmt.Errorf("%w: %v", ErrWriteError, err)
		}
	}

	if interrupt != nil {
		interrupt.SetInterrupted(savedInterrupt || interrupt.Interrupted())
	}

	return failErr
}

// SetDirty marks every block with bnum > 0 DIRTY and forces the MemFile
// DIRTY, per original_source's mf_set_dirty; block 0 and memory-only
// blocks keep their flags. It's used when a previously memory-only
// MemFile gets a swap file attached late (see OpenFile).
func (mf *MemFile) SetDirty() {
	mf.index.each(func(nr BlockNr, h *BlockHeader) bool {
		if nr > 0 {
			h.flags |= FlagDirty
		}
		return true
	})
	mf.dirty = Dirty
}
