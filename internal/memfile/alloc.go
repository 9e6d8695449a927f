package memfile

// New allocates a fresh block, locked and dirty, per spec.md §4.G.1. When
// negative is false the free list is consulted first (split-on-reuse);
// only when it can't satisfy the request does New extend blocknrMax. A
// negative block always gets a fresh memory-only number from blocknrMin
// and is never drawn from the free list (the free list only ever holds
// positive, file-backed runs).
func (mf *MemFile) New(negative bool, pageCount uint32) *BlockHeader {
	var h *BlockHeader

	if !negative {
		if bnum, popped, ok := mf.free.split(pageCount); ok {
			if popped != nil {
				popped.data = make([]byte, mf.pageSize*int(pageCount))
				popped.pageCount = pageCount
				h = popped
			} else {
				h = newBlockHeader(mf.pageSize, pageCount)
				h.bnum = bnum
			}
		}
	}

	if h == nil {
		h = newBlockHeader(mf.pageSize, pageCount)
		if negative {
			h.bnum = mf.blocknrMin
			mf.blocknrMin--
			mf.negCount++
		} else {
			h.bnum = mf.blocknrMax
			mf.blocknrMax += BlockNr(pageCount)
		}
	}

	h.flags = FlagLocked | FlagDirty
	mf.dirty = Dirty
	mf.index.put(h)
	return h
}

// Get returns the block numbered nr, locked, reading it from the swap
// file if it isn't already resident. It returns nil if nr is out of
// range or the read fails, per spec.md §4.G.2.
func (mf *MemFile) Get(nr BlockNr, pageCount uint32) *BlockHeader {
	if nr >= mf.blocknrMax || nr <= mf.blocknrMin {
		return nil
	}

	if h, ok := mf.index.get(nr); ok {
		h.flags |= FlagLocked
		return h
	}

	if nr < 0 || nr >= mf.infileCount {
		return nil
	}

	h := newBlockHeader(mf.pageSize, pageCount)
	h.bnum = nr
	if err := mf.readBlock(h); err != nil {
		return nil
	}
	h.flags = FlagLocked
	mf.index.put(h)
	return h
}

// Put releases a previously locked block, per spec.md §4.G.3. dirty marks
// it DIRTY (unless the MemFile is in DirtyNoSync, which Put must not
// clear back to Dirty). infile additionally runs TransAdd, covering the
// case where a caller knows a memory-only block must become file-backed
// right away rather than waiting for the next sync.
func (mf *MemFile) Put(h *BlockHeader, dirty, infile bool) error {
	if !h.flags.Locked() {
		return ErrBlockNotLocked
	}
	h.flags &^= FlagLocked
	if dirty {
		h.flags |= FlagDirty
		if mf.dirty != DirtyNoSync {
			mf.dirty = Dirty
		}
	}
	if infile {
		return mf.transAdd(h)
	}
	return nil
}

// Free releases a block's storage entirely, per spec.md §4.G.4. A
// positive block's header and number go back onto the free list for
// reuse; a negative block's number is simply dropped (memory-only
// numbers are never reused).
func (mf *MemFile) Free(h *BlockHeader) {
	mf.index.remove(h.bnum)
	if h.bnum < 0 {
		mf.negCount--
		return
	}
	h.data = nil
	h.flags = 0
	mf.free.push(h)
}

// transAdd renumbers a memory-only block to a file-backed one, per
// spec.md §4.G.5/original_source's mf_trans_add. It is called internally
// by writeBlock the first time a negative block is written, and
// externally by Put when infile is requested. negCount is left alone
// here: per spec.md §4.G.5/§4.G.6 the count only drops once a caller
// actually consumes the pending translation via TransDel, not the
// moment the translation becomes available.
func (mf *MemFile) transAdd(h *BlockHeader) error {
	if h.bnum >= 0 {
		return nil
	}

	var newBnum BlockNr
	if bnum, _, ok := mf.free.split(h.pageCount); ok {
		// A popped header here is discarded outright: h already owns its
		// data, it's only being renumbered, unlike New which reuses the
		// popped header as the allocation itself.
		newBnum = bnum
	} else {
		newBnum = mf.blocknrMax
		mf.blocknrMax += BlockNr(h.pageCount)
	}

	oldBnum := h.bnum
	mf.index.rekey(oldBnum, newBnum)
	mf.trans.add(oldBnum, newBnum)
	return nil
}

// TransDel exchanges a stale negative BlockNr a caller is still holding
// for its current positive one, consuming the pending translation and
// dropping negCount, per spec.md §4.G.6. If no translation is pending
// for old, it is returned unchanged and negCount is untouched.
func (mf *MemFile) TransDel(old BlockNr) BlockNr {
	if newBnum, ok := mf.trans.del(old); ok {
		mf.negCount--
		return newBnum
	}
	return old
}
