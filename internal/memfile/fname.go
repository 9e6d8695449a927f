package memfile

import (
	"path/filepath"

	"github.com/google/uuid"
)

// fileNames holds the two names original_source's mf_set_fnames tracks: the
// name as the caller gave it (possibly relative) and the absolute name
// computed eagerly at open time, so a later process-wide working-directory
// change can't invalidate a relative swap path already in use.
type fileNames struct {
	fname  string
	ffname string
}

func setFnames(name string) (fileNames, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return fileNames{}, err
	}
	return fileNames{fname: name, ffname: abs}, nil
}

// fullname promotes the previously computed absolute path into the
// primary name slot, per original_source's mf_fullname: callers invoke
// this before changing the working directory, so the relative name
// doesn't silently start pointing somewhere else.
func (fn *fileNames) fullname() {
	if fn.fname == "" || fn.ffname == "" {
		return
	}
	fn.fname = fn.ffname
	fn.ffname = ""
}

func (fn *fileNames) free() {
	fn.fname = ""
	fn.ffname = ""
}

// UniqueSwapName returns a collision-free scratch swap-file path under
// dir for callers that want a disposable swap file rather than a fixed,
// caller-chosen location, grounded on uuid_helpers.go's use of
// github.com/google/uuid for collision-free identifiers.
func UniqueSwapName(dir, base string) string {
	return filepath.Join(dir, base+"-"+uuid.NewString()+".swp")
}
