package crawl

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
)

var _ harvest.MediaIndex = (*Index)(nil)

// Index maps hashed media file names to their local paths.
// Entries are only ever added. It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	entries map[uint64]string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[uint64]string)}
}

// Add records that the file called name is stored at path.
func (x *Index) Add(name, path string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[xxhash.Sum64String(name)] = path
}

// Contains reports whether a file called name has been recorded.
func (x *Index) Contains(name string) bool {
	_, ok := x.Lookup(name)
	return ok
}

// Lookup returns the path recorded for name.
func (x *Index) Lookup(name string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	path, ok := x.entries[xxhash.Sum64String(name)]
	return path, ok
}

// Len returns the number of recorded files.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
