package memfile

// indexEntry wraps a BlockHeader with the intrusive doubly-linked-list
// pointers blockIndex uses to track its move-to-front hint, the same shape
// as the teacher's PageBufferPool node.
type indexEntry struct {
	h          *BlockHeader
	prev, next *indexEntry
}

// blockIndex maps BlockNr to BlockHeader, per spec.md §3.4. Unlike the
// teacher's PageBufferPool it has no capacity bound and never evicts on
// its own — eviction is driven solely by ReleaseAll (component I). The
// front/back list exists only to honor the "get reinserts at the front"
// hint spec.md describes; Sync deliberately ignores it and walks the map
// directly, since spec.md §9 leaves "does this order matter" unresolved
// and the teacher's own sync-equivalent (Checkpoint) doesn't care either.
type blockIndex struct {
	m          map[BlockNr]*indexEntry
	front, back *indexEntry
}

func newBlockIndex() *blockIndex {
	return &blockIndex{m: make(map[BlockNr]*indexEntry)}
}

func (bi *blockIndex) unlink(e *indexEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		bi.front = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		bi.back = e.prev
	}
	e.prev, e.next = nil, nil
}

func (bi *blockIndex) pushFront(e *indexEntry) {
	e.prev = nil
	e.next = bi.front
	if bi.front != nil {
		bi.front.prev = e
	}
	bi.front = e
	if bi.back == nil {
		bi.back = e
	}
}

// peek looks a block up without touching the move-to-front order; used by
// writeBlock's gap-filler lookup, which must not disturb index order.
func (bi *blockIndex) peek(nr BlockNr) *BlockHeader {
	if e, ok := bi.m[nr]; ok {
		return e.h
	}
	return nil
}

// get looks a block up and reinserts it at the front, mirroring mf_get's
// pmap_del-then-pmap_put dance.
func (bi *blockIndex) get(nr BlockNr) (*BlockHeader, bool) {
	e, ok := bi.m[nr]
	if !ok {
		return nil, false
	}
	bi.unlink(e)
	bi.pushFront(e)
	return e.h, true
}

func (bi *blockIndex) put(h *BlockHeader) {
	if e, ok := bi.m[h.bnum]; ok {
		e.h = h
		bi.unlink(e)
		bi.pushFront(e)
		return
	}
	e := &indexEntry{h: h}
	bi.m[h.bnum] = e
	bi.pushFront(e)
}

func (bi *blockIndex) remove(nr BlockNr) {
	e, ok := bi.m[nr]
	if !ok {
		return
	}
	bi.unlink(e)
	delete(bi.m, nr)
}

// rekey moves a block from old to new under a new BlockNr, used by
// TransAdd when a memory-only block finally gets a file-backed number.
func (bi *blockIndex) rekey(old, new BlockNr) {
	e, ok := bi.m[old]
	if !ok {
		return
	}
	delete(bi.m, old)
	e.h.bnum = new
	bi.m[new] = e
}

func (bi *blockIndex) len() int { return len(bi.m) }

// each calls fn for every block header in native map order (randomized),
// stopping early if fn returns false. Go tolerates deleting the
// currently-visited key during a range over the same map, so callers that
// evict mid-walk (ReleaseAll) need no extra bookkeeping the way the
// original's array-backed hash table did.
func (bi *blockIndex) each(fn func(nr BlockNr, h *BlockHeader) bool) {
	for nr, e := range bi.m {
		if !fn(nr, e.h) {
			return
		}
	}
}

// evictUnlocked calls try for every currently unlocked block and removes
// it from the index when try reports success, relying on the same
// delete-during-range safety each documents above. try may renumber h
// (writeBlock's transAdd renumbers a negative block mid-call), so the
// entry is deleted by e.h.bnum as it stands *after* try returns, not by
// the range key nr: rekey already moved the map entry to the new key,
// and deleting under the stale key would be a no-op, leaving the entry
// unlinked from the list but still present in the map under its new key.
func (bi *blockIndex) evictUnlocked(try func(h *BlockHeader) bool) int {
	n := 0
	for _, e := range bi.m {
		if e.h.flags.Locked() {
			continue
		}
		if !try(e.h) {
			continue
		}
		bi.unlink(e)
		delete(bi.m, e.h.bnum)
		n++
	}
	return n
}
