package filebrowser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter decides whether a directory entry becomes a tree item. A browser
// holds one Filter and calls it once per entry, serially, so
// implementations may keep state between calls.
type Filter interface {
	Accept(path string) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(path string) bool

func (f FilterFunc) Accept(path string) bool { return f(path) }

// HiddenFilter rejects entries whose name starts with a dot.
func HiddenFilter() Filter {
	return FilterFunc(func(path string) bool {
		return !strings.HasPrefix(filepath.Base(path), ".")
	})
}

// AllOf accepts an entry only when every non-nil filter accepts it.
func AllOf(filters ...Filter) Filter {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return FilterFunc(func(path string) bool {
		for _, f := range active {
			if !f.Accept(path) {
				return false
			}
		}
		return true
	})
}

// dirCache remembers which paths are directories so a filter asked about
// the same entry again does not stat it twice.
type dirCache struct {
	stat  func(string) (os.FileInfo, error)
	known map[string]bool
}

func newDirCache() dirCache {
	return dirCache{stat: os.Stat, known: make(map[string]bool)}
}

func (c *dirCache) isDir(path string) bool {
	if v, ok := c.known[path]; ok {
		return v
	}
	info, err := c.stat(path)
	v := err == nil && info.IsDir()
	c.known[path] = v
	return v
}

// FuzzyFilter keeps directories, so they stay navigable, and files whose
// name fuzzy-matches Query.
type FuzzyFilter struct {
	Query string
	dirs  dirCache
}

func NewFuzzyFilter(query string) *FuzzyFilter {
	return &FuzzyFilter{Query: strings.TrimSpace(query), dirs: newDirCache()}
}

func (f *FuzzyFilter) Accept(path string) bool {
	if f.Query == "" {
		return true
	}
	if f.dirs.isDir(path) {
		return true
	}
	return fuzzy.MatchNormalizedFold(f.Query, filepath.Base(path))
}

// ExtensionFilter keeps directories and files with one of the listed
// extensions. Extensions compare case-insensitively, with or without the dot.
type ExtensionFilter struct {
	exts map[string]struct{}
	dirs dirCache
}

func NewExtensionFilter(exts ...string) *ExtensionFilter {
	f := &ExtensionFilter{exts: make(map[string]struct{}, len(exts)), dirs: newDirCache()}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.exts[ext] = struct{}{}
	}
	return f
}

func (f *ExtensionFilter) Accept(path string) bool {
	if len(f.exts) == 0 {
		return true
	}
	if f.dirs.isDir(path) {
		return true
	}
	_, ok := f.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}
