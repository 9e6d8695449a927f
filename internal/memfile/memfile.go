package memfile

import (
	"fmt"
	"os"
	"syscall"
)

// OpenFlag controls how Open and doOpen create or attach a swap file.
type OpenFlag int

const (
	// OpenCreate creates the swap file if it doesn't exist.
	OpenCreate OpenFlag = 1 << iota
	// OpenExcl requires the swap file not already exist; combined with
	// OpenCreate this is how OpenFile refuses to attach over a stale file.
	OpenExcl
	// OpenTrunc discards any existing swap-file content, used when a
	// caller knows the old contents are stale.
	OpenTrunc
)

// MemFile is a paged, caller-opaque block store backed by an optional
// swap file, per spec.md §2. A MemFile with no swap file keeps every
// block in memory only; attaching a file later (OpenFile) lets previously
// memory-only blocks migrate to file-backed numbers via TransAdd.
type MemFile struct {
	fn   fileNames
	file *os.File

	pageSize int

	blocknrMax  BlockNr // next unused non-negative BlockNr
	blocknrMin  BlockNr // next unused negative BlockNr (counts down from -1)
	negCount    int     // negative-numbered blocks, counting translated ones until TransDel
	infileCount BlockNr // blocks known to exist in the swap file so far

	dirty DirtyState

	free  *freeList
	index *blockIndex
	trans *transTable

	didSwapWriteMsg bool
	logger          Logger
}

// Open creates a new MemFile. If fname is non-empty a swap file is opened
// (or created, per flags) immediately; an empty fname yields a
// memory-only MemFile that can later be given one via OpenFile.
func Open(fname string, flags OpenFlag, logger Logger) (*MemFile, error) {
	mf := &MemFile{
		pageSize: DefaultPageSize,
		free:     &freeList{},
		index:    newBlockIndex(),
		trans:    newTransTable(),
		logger:   logger,
	}

	if fname != "" {
		if err := mf.doOpen(fname, flags); err != nil {
			return nil, err
		}
	}

	var size int64
	if mf.file != nil {
		if bs, ok := deviceBlockSize(mf.file); ok {
			mf.pageSize = bs
		}
		if flags&OpenTrunc == 0 {
			if fi, err := mf.file.Stat(); err == nil {
				size = fi.Size()
			}
		}
	}

	if size > 0 {
		mf.blocknrMax = BlockNr((size + int64(mf.pageSize) - 1) / int64(mf.pageSize))
	}
	mf.blocknrMin = -1
	mf.infileCount = mf.blocknrMax

	registryAdd(mf)
	return mf, nil
}

// doOpen opens (optionally creating) the swap file at fname, refusing to
// follow a symlink at that path — the attack original_source's
// mf_do_open guards against explicitly.
func (mf *MemFile) doOpen(fname string, flags OpenFlag) error {
	fn, err := setFnames(fname)
	if err != nil {
		return err
	}

	if flags&OpenCreate != 0 {
		if _, err := os.Lstat(fname); err == nil {
			return fmt.Errorf("open swap file %s: %w", fname, ErrSwapExists)
		}
	}

	osFlags := os.O_RDWR | syscall.O_NOFOLLOW
	if flags&OpenCreate != 0 {
		osFlags |= os.O_CREATE
	}
	if flags&OpenExcl != 0 {
		osFlags |= os.O_EXCL
	}
	if flags&OpenTrunc != 0 {
		osFlags |= os.O_TRUNC
	}

	f, err := os.OpenFile(fname, osFlags, 0o600)
	if err != nil {
		return fmt.Errorf("open swap file %s: %w", fname, err)
	}

	mf.fn = fn
	mf.file = f
	return nil
}

// OpenFile attaches a swap file to a MemFile that was opened memory-only,
// per spec.md §6.2's open_file. Every existing block with bnum > 0 is
// marked DIRTY (SetDirty) since none of them have ever been written
// anywhere; block 0 and memory-only blocks keep their flags.
func (mf *MemFile) OpenFile(fname string) error {
	if mf.file != nil {
		return fmt.Errorf("open swap file %s: %w", fname, ErrSwapExists)
	}
	if err := mf.doOpen(fname, OpenCreate|OpenExcl); err != nil {
		return err
	}
	mf.SetDirty()
	return nil
}

// CloseFile detaches and removes the swap file without closing the
// MemFile itself, leaving every block memory-only again. getLines, if
// non-nil, is called first so a higher layer can pre-fault any data it
// keeps outside MemFile before the file disappears (original_source's
// getlines pre-fault in mf_close_file).
func (mf *MemFile) CloseFile(getLines func() error) error {
	if mf.file == nil {
		return nil
	}
	if getLines != nil {
		if err := getLines(); err != nil {
			return err
		}
	}
	closeErr := mf.file.Close()
	mf.file = nil
	name := mf.fn.fname
	mf.fn.free()
	if name != "" {
		os.Remove(name)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: %v", ErrSwapClose, closeErr)
	}
	return nil
}

// Close closes the MemFile entirely, optionally deleting its swap file.
// Once closed the MemFile must not be used again.
func (mf *MemFile) Close(deleteFile bool) error {
	registryRemove(mf)

	var closeErr error
	if mf.file != nil {
		if err := mf.file.Close(); err != nil {
			closeErr = fmt.Errorf("%w: %v", ErrSwapClose, err)
		}
	}
	if deleteFile && mf.fn.fname != "" {
		os.Remove(mf.fn.fname)
	}

	mf.file = nil
	mf.index = newBlockIndex()
	mf.free = &freeList{}
	mf.trans = newTransTable()
	mf.fn.free()
	return closeErr
}

// NeedTrans reports whether this MemFile has a swap file and negCount is
// above zero: some block is still memory-only, or a translation made by
// transAdd has not yet been consumed by TransDel.
func (mf *MemFile) NeedTrans() bool {
	return mf.fn.fname != "" && mf.negCount > 0
}

// Fullname promotes the MemFile's swap-file name to its absolute form,
// per original_source's mf_fullname, so a later os.Chdir can't change
// what a relative swap-file name resolves to.
func (mf *MemFile) Fullname() { mf.fn.fullname() }

// PageSize returns the MemFile's current page size in bytes.
func (mf *MemFile) PageSize() int { return mf.pageSize }

// SetPageSize changes the page size used by future New/Get calls. It does
// not resize any block already allocated, matching spec.md §4.E's note
// that a page-size change after open must be tolerated, not retrofitted.
func (mf *MemFile) SetPageSize(n int) { mf.pageSize = n }

// Dirty reports the MemFile's overall dirty/clean state.
func (mf *MemFile) Dirty() DirtyState { return mf.dirty }

// HasFile reports whether a swap file is currently attached.
func (mf *MemFile) HasFile() bool { return mf.file != nil }

// Name returns the swap file's name as given by the caller (or its
// promoted absolute form, after Fullname), or "" for a memory-only
// MemFile.
func (mf *MemFile) Name() string { return mf.fn.fname }
