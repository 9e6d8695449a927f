package memfile

// freeList is a singly-linked stack of freed, positively-numbered
// BlockHeaders, grounded on original_source's mf_ins_free/mf_rem_free,
// which reuse a freed header's bh_data pointer as the link; here the
// headers are linked through BlockHeader's own next field, with no
// separate node type. MemFile's free list is purely in-memory — the
// design never serializes it to disk, unlike the teacher's FreeListPage.
type freeList struct {
	head *BlockHeader
}

// push returns h to the free list. Callers must have already cleared h's
// data and flags; push only links it in.
func (fl *freeList) push(h *BlockHeader) {
	h.next = fl.head
	fl.head = h
}

// split satisfies a request for pageCount contiguous pages from the head
// of the free list, per spec.md §4.G.1/§4.G.5:
//
//   - if the list is empty or its head run is smaller than pageCount, ok
//     is false and the caller must fall back to extending blocknrMax.
//   - if the head run is larger than needed, split queues up, fl is
//     returned the remaining pages under an advanced BlockNr, and the
//     caller is handed the low BlockNr of the consumed run to reuse for a
//     new (or renumbered) header.
//   - if the head run matches exactly, the whole header is popped off the
//     list and handed back so the caller can reuse its identity (New) or
//     simply discard it, keeping only the BlockNr (TransAdd).
func (fl *freeList) split(pageCount uint32) (bnum BlockNr, popped *BlockHeader, ok bool) {
	head := fl.head
	if head == nil || head.pageCount < pageCount {
		return 0, nil, false
	}
	bnum = head.bnum
	if head.pageCount > pageCount {
		head.bnum += BlockNr(pageCount)
		head.pageCount -= pageCount
		return bnum, nil, true
	}
	fl.head = head.next
	head.next = nil
	return bnum, head, true
}
