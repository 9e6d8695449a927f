package memfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// readAtRetry and writeAtRetry retry a positioned I/O call across a
// transient EINTR, the same concern original_source's read_eintr/
// write_eintr cover explicitly. Go's runtime already retries most EINTRs
// internally, but a signal delivered between the retry and the syscall
// can still surface one, so the loop stays as a defensive translation.
func readAtRetry(f *os.File, buf []byte, off int64) (int, error) {
	for {
		n, err := f.ReadAt(buf, off)
		if err != nil && errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}

func writeAtRetry(f *os.File, buf []byte, off int64) (int, error) {
	for {
		n, err := f.WriteAt(buf, off)
		if err != nil && errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}

// readBlock fills h.data from the swap file at h's current block number,
// per spec.md §4.F.2.
func (mf *MemFile) readBlock(h *BlockHeader) error {
	if mf.file == nil {
		return ErrReadError
	}
	off := int64(mf.pageSize) * int64(h.bnum)
	if off < 0 {
		return ErrSeekRead
	}
	size := mf.pageSize * int(h.pageCount)
	n, err := readAtRetry(mf.file, h.data[:size], off)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadError, err)
	}
	if n != size {
		return fmt.Errorf("%w: %v", ErrReadError, io.ErrUnexpectedEOF)
	}
	return nil
}

// writeBlock writes h to the swap file, gap-filling any blocks between
// the current end of the file and h's position so the file never grows a
// hole, per spec.md §4.F.3. It is grounded on original_source's mf_write.
func (mf *MemFile) writeBlock(h *BlockHeader) error {
	if mf.file == nil {
		return ErrWriteError
	}
	if h.bnum < 0 {
		if err := mf.transAdd(h); err != nil {
			return err
		}
	}

	for {
		nr := h.bnum
		var filler *BlockHeader
		if nr > mf.infileCount {
			// The file doesn't reach this far yet; write the next gap
			// block first. If something still lives at that slot, write
			// its real data; otherwise write h's data as arbitrary filler
			// (the slot was freed and never had a swap-file counterpart).
			nr = mf.infileCount
			filler = mf.index.peek(nr)
		} else {
			filler = h
		}

		pageCount := uint32(1)
		data := h.data
		if filler != nil {
			pageCount = filler.pageCount
			data = filler.data
		}

		off := int64(mf.pageSize) * int64(nr)
		if off < 0 {
			return ErrSeekWrite
		}
		size := mf.pageSize * int(pageCount)
		if _, err := writeAtRetry(mf.file, data[:size], off); err != nil {
			if !mf.didSwapWriteMsg {
				mf.logf("write error in swap file %s: %v", mf.fn.fname, err)
				mf.didSwapWriteMsg = true
			}
			return fmt.Errorf("%w: %v", ErrWriteError, err)
		}
		mf.didSwapWriteMsg = false

		if filler != nil {
			filler.flags &^= FlagDirty
		}
		if nr+BlockNr(pageCount) > mf.infileCount {
			mf.infileCount = nr + BlockNr(pageCount)
		}
		if nr == h.bnum {
			break
		}
	}
	return nil
}
