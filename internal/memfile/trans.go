package memfile

// transTable maps a memory-only block's old (negative) BlockNr to the new
// (positive) BlockNr it was renumbered to when a swap file appeared. It
// has no teacher counterpart; it's a plain map in the same style the
// teacher uses for its FreeManager's free set.
type transTable struct {
	m map[BlockNr]BlockNr
}

func newTransTable() *transTable {
	return &transTable{m: make(map[BlockNr]BlockNr)}
}

func (t *transTable) add(old, new BlockNr) {
	t.m[old] = new
}

// del looks up and removes a pending translation, per spec.md's
// trans_del: a caller holding a stale negative BlockNr exchanges it for
// the current positive one, consuming the entry.
func (t *transTable) del(old BlockNr) (BlockNr, bool) {
	new, ok := t.m[old]
	if ok {
		delete(t.m, old)
	}
	return new, ok
}

func (t *transTable) len() int { return len(t.m) }
