package harvest

// MediaIndex records media files present in the output folder, keyed by
// file name. Implementations must be safe for concurrent use.
type MediaIndex interface {
	// Contains reports whether a file with the given name is present.
	Contains(name string) bool

	// Add records that name is stored at path.
	Add(name, path string)

	// Len returns the number of indexed files.
	Len() int
}
