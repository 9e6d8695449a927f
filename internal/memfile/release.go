package memfile

// SwapOpener lets ReleaseAll ask a MemFile's owner to attach a swap file
// before eviction, for a MemFile that doesn't have one yet — mirroring
// original_source's mf_release_all, which tries mf_open_file on one
// memory-only buffer before giving up on freeing anything from it. It
// returns false if the owner declines (or can't: e.g. no directory is
// configured for scratch files).
type SwapOpener func(mf *MemFile) (ok bool)

// ReleaseAll evicts every unlocked block across all open MemFiles,
// writing out anything DIRTY first, per spec.md §4.I and
// original_source's mf_release_all/FOR_ALL_BUFFERS. It reports whether
// any block was actually released, which a caller facing an allocation
// failure uses to decide whether retrying is worthwhile.
func ReleaseAll(opener SwapOpener) bool {
	released := false

	for _, mf := range registrySnapshot() {
		if mf.file == nil && opener != nil {
			opener(mf)
		}
		if mf.file == nil {
			continue
		}

		n := mf.index.evictUnlocked(func(h *BlockHeader) bool {
			if h.flags.Dirty() {
				if err := mf.writeBlock(h); err != nil {
					mf.logf("release: could not flush block %d of %s: %v", h.bnum, mf.fn.fname, err)
					return false
				}
			}
			return true
		})
		if n > 0 {
			released = true
		}
	}

	return released
}
