package memfile

import "testing"

func TestBlockIndexGetReinsertsAtFront(t *testing.T) {
	bi := newBlockIndex()
	h1 := &BlockHeader{bnum: 1}
	h2 := &BlockHeader{bnum: 2}
	bi.put(h1)
	bi.put(h2)

	if bi.front.h != h2 {
		t.Fatalf("expected h2 at front after put, got bnum %d", bi.front.h.BlockNr())
	}

	if _, ok := bi.get(1); !ok {
		t.Fatal("expected to find block 1")
	}
	if bi.front.h != h1 {
		t.Fatalf("expected h1 at front after get, got bnum %d", bi.front.h.BlockNr())
	}
}

func TestBlockIndexRemoveAndLen(t *testing.T) {
	bi := newBlockIndex()
	bi.put(&BlockHeader{bnum: 1})
	bi.put(&BlockHeader{bnum: 2})
	if bi.len() != 2 {
		t.Fatalf("len() = %d, want 2", bi.len())
	}
	bi.remove(1)
	if bi.len() != 1 {
		t.Fatalf("len() = %d, want 1", bi.len())
	}
	if _, ok := bi.get(1); ok {
		t.Fatal("expected block 1 to be gone")
	}
}

func TestBlockIndexRekey(t *testing.T) {
	bi := newBlockIndex()
	h := &BlockHeader{bnum: -1}
	bi.put(h)
	bi.rekey(-1, 5)
	if h.BlockNr() != 5 {
		t.Fatalf("BlockNr() = %d, want 5", h.BlockNr())
	}
	if _, ok := bi.get(-1); ok {
		t.Fatal("expected old key -1 to be gone")
	}
	if got, ok := bi.get(5); !ok || got != h {
		t.Fatal("expected new key 5 to map to h")
	}
}

func TestBlockIndexEvictUnlockedSkipsLocked(t *testing.T) {
	bi := newBlockIndex()
	locked := &BlockHeader{bnum: 1, flags: FlagLocked}
	unlocked := &BlockHeader{bnum: 2}
	bi.put(locked)
	bi.put(unlocked)

	n := bi.evictUnlocked(func(h *BlockHeader) bool { return true })
	if n != 1 {
		t.Fatalf("evictUnlocked removed %d, want 1", n)
	}
	if bi.len() != 1 {
		t.Fatalf("len() = %d, want 1", bi.len())
	}
	if _, ok := bi.get(1); !ok {
		t.Fatal("expected locked block to survive")
	}
}

// evictUnlocked must delete by the block's *current* number, not the key it
// was visiting under: try here mimics writeBlock renumbering a negative,
// unlocked, dirty block via rekey before reporting success, the same
// sequence ReleaseAll drives through transAdd.
func TestBlockIndexEvictUnlockedSurvivesRekeyDuringTry(t *testing.T) {
	bi := newBlockIndex()
	h := &BlockHeader{bnum: -1, flags: FlagDirty}
	bi.put(h)

	n := bi.evictUnlocked(func(h *BlockHeader) bool {
		bi.rekey(h.BlockNr(), 7)
		return true
	})
	if n != 1 {
		t.Fatalf("evictUnlocked removed %d, want 1", n)
	}
	if bi.len() != 0 {
		t.Fatalf("len() = %d, want 0 (entry should be fully gone under its new key)", bi.len())
	}
	if bi.front != nil || bi.back != nil {
		t.Fatalf("front/back = %v/%v, want nil/nil after evicting the only entry", bi.front, bi.back)
	}
	if _, ok := bi.get(7); ok {
		t.Fatal("expected new key 7 to be gone too, not just unlinked")
	}
}

func TestFreeListSplitExactMatchPopsHeader(t *testing.T) {
	fl := &freeList{}
	h := &BlockHeader{bnum: 10, pageCount: 2}
	fl.push(h)

	bnum, popped, ok := fl.split(2)
	if !ok || bnum != 10 || popped != h {
		t.Fatalf("split(2) = (%d, %v, %v), want (10, h, true)", bnum, popped, ok)
	}
	if fl.head != nil {
		t.Fatal("expected free list to be empty after exact-match pop")
	}
}

func TestFreeListSplitPartialLeavesRemainder(t *testing.T) {
	fl := &freeList{}
	h := &BlockHeader{bnum: 10, pageCount: 3}
	fl.push(h)

	bnum, popped, ok := fl.split(1)
	if !ok || bnum != 10 || popped != nil {
		t.Fatalf("split(1) = (%d, %v, %v), want (10, nil, true)", bnum, popped, ok)
	}
	if fl.head.bnum != 11 || fl.head.pageCount != 2 {
		t.Fatalf("remainder = {%d, %d}, want {11, 2}", fl.head.bnum, fl.head.pageCount)
	}
}

func TestFreeListSplitFailsWhenTooSmall(t *testing.T) {
	fl := &freeList{}
	fl.push(&BlockHeader{bnum: 10, pageCount: 1})

	if _, _, ok := fl.split(2); ok {
		t.Fatal("expected split to fail when the head run is smaller than requested")
	}
}
