package memfile

// BlockNr identifies a block within a MemFile. Non-negative values are
// file-backed positions (an index into the swap file, in page_size units);
// negative values are memory-only blocks that have never been written to
// disk. Zero is a valid file-backed block number.
type BlockNr int64

// Flags records per-block state. A block is LOCKED while a caller holds it
// via Get/New and DIRTY while its in-memory data differs from (or has no
// counterpart in) the swap file.
type Flags uint8

const (
	FlagLocked Flags = 1 << iota
	FlagDirty
)

// Locked reports whether the block is currently checked out by a caller.
func (f Flags) Locked() bool { return f&FlagLocked != 0 }

// Dirty reports whether the block's data needs to be (re)written to the
// swap file before it can be considered in sync.
func (f Flags) Dirty() bool { return f&FlagDirty != 0 }

// BlockHeader is the metadata and owned byte buffer for one in-memory
// block. Callers never construct one directly; New and Get hand out the
// only valid instances.
type BlockHeader struct {
	bnum      BlockNr
	pageCount uint32
	data      []byte
	flags     Flags

	// next links free BlockHeaders into freeList's singly-linked stack.
	// It is only meaningful while the header sits on that list.
	next *BlockHeader
}

func newBlockHeader(pageSize int, pageCount uint32) *BlockHeader {
	return &BlockHeader{
		pageCount: pageCount,
		data:      make([]byte, pageSize*int(pageCount)),
	}
}

// BlockNr returns the block's current number.
func (h *BlockHeader) BlockNr() BlockNr { return h.bnum }

// PageCount returns the number of contiguous pages this header covers.
func (h *BlockHeader) PageCount() uint32 { return h.pageCount }

// Data returns the block's owned byte buffer. Callers may read and write
// it freely while the block is locked; mutating it does not itself mark
// the block DIRTY (see Put).
func (h *BlockHeader) Data() []byte { return h.data }

// Flags returns the block's current LOCKED/DIRTY state.
func (h *BlockHeader) Flags() Flags { return h.flags }

// DirtyState is MemFile's overall dirty/clean tri-state.
type DirtyState uint8

const (
	// Clean means the last Sync walk ran to completion without a write
	// failure (or Sync found no swap file). Blocks that walk skipped, such
	// as memory-only blocks without SyncAll, may still be DIRTY.
	Clean DirtyState = iota
	// Dirty means at least one block needs a write, and a normal sync
	// should attempt it.
	Dirty
	// DirtyNoSync means at least one block needs a write, but the MemFile
	// should not be synced automatically (set by callers that know a sync
	// right now would be wasted, e.g. mid-bulk-edit).
	DirtyNoSync
)
