// Package bloom remembers which media file names a crawl has already queued.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is an approximate set of file names. A false positive makes the
// crawl skip a file it has not seen; a name is never forgotten. Not safe
// for concurrent use.
type Filter struct {
	bits *bloom.BloomFilter
}

// NewFilter sizes a filter for about n names at false positive rate p.
func NewFilter(n uint, p float64) *Filter {
	return &Filter{bits: bloom.NewWithEstimates(n, p)}
}

// TestAndAdd records name and reports whether it was possibly seen before.
func (f *Filter) TestAndAdd(name string) bool {
	return f.bits.TestAndAddString(name)
}
