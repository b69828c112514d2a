package filebrowser

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Entry is an immediate child of a listed directory.
type Entry struct {
	Path  string
	IsDir bool
}

// Lister enumerates the immediate children of a directory.
type Lister interface {
	List(dir string) ([]Entry, error)
}

// OSLister lists directories on the local filesystem.
type OSLister struct{}

func (OSLister) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{
			Path:  filepath.Join(dir, de.Name()),
			IsDir: de.IsDir(),
		})
	}
	return entries, nil
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(dir string) ([]Entry, error)

func (f ListerFunc) List(dir string) ([]Entry, error) { return f(dir) }

// sortEntries orders directories before files, then by name.
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
		return strings.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})
}

// isDirEmpty reports whether dir has no children, treating unreadable
// paths and plain files as empty.
func isDirEmpty(l Lister, dir string) bool {
	entries, err := l.List(dir)
	return err != nil || len(entries) == 0
}
