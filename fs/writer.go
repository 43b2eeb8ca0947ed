// Package fs lays out harvested media on the local filesystem.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/harvest"
)

// PartSuffix marks files that are still being downloaded.
const PartSuffix = ".part"

// Layout maps media URLs to paths under an output folder. Media land in
// Root, optionally nested in a folder per tag and then per search query.
type Layout struct {
	Root  string
	Tag   string
	Query string
}

// Dir returns the folder media are written to.
func (l Layout) Dir() string {
	dir := l.Root
	if tag := sanitize(l.Tag); tag != "" {
		dir = filepath.Join(dir, tag)
	}
	if query := sanitize(l.Query); query != "" {
		dir = filepath.Join(dir, query)
	}
	return dir
}

// Path returns the destination of a media URL.
func (l Layout) Path(mediaURL string) string {
	return filepath.Join(l.Dir(), sanitize(harvest.FileName(mediaURL)))
}

// EnsureDir creates the folder at path if it does not exist. It fails with
// EINVALID when something other than a folder already occupies path.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return harvest.Errorf(harvest.EINVALID, "output path %q exists and is not a folder", path)
	case err == nil:
		return nil
	case !errors.Is(err, iofs.ErrNotExist):
		return err
	}
	return os.MkdirAll(path, 0755)
}

// ScanIndex records every media file already stored under root in index,
// so earlier runs are not downloaded again. Unfinished downloads are
// ignored. A missing root yields an empty scan.
func ScanIndex(root string, index harvest.MediaIndex) (int, error) {
	var n int
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, iofs.ErrNotExist) {
				return iofs.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), PartSuffix) {
			return nil
		}
		index.Add(d.Name(), path)
		n++
		return nil
	})
	return n, err
}

// sanitize turns s into a single safe path element.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}
