package memfile

import "sync"

// registry tracks every open MemFile so ReleaseAll can sweep all of them
// under global memory pressure, mirroring original_source's
// FOR_ALL_BUFFERS iteration in mf_release_all. The teacher has no direct
// counterpart for this; it follows the general mutex-guarded
// package-level collection idiom used throughout the examples.
var (
	registryMu sync.Mutex
	registry   = map[*MemFile]struct{}{}
)

func registryAdd(mf *MemFile) {
	registryMu.Lock()
	registry[mf] = struct{}{}
	registryMu.Unlock()
}

func registryRemove(mf *MemFile) {
	registryMu.Lock()
	delete(registry, mf)
	registryMu.Unlock()
}

func registrySnapshot() []*MemFile {
	registryMu.Lock()
	defer registryMu.Unlock()
	mfs := make([]*MemFile, 0, len(registry))
	for mf := range registry {
		mfs = append(mfs, mf)
	}
	return mfs
}
