package filebrowser

import (
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

// FindTree returns the Tree under node whose path equals path. When no such
// Tree is materialised it falls back to the deepest Tree whose path is a
// directory ancestor of path. Ancestry is component-wise, so /a/b never
// matches /a/bb. Returns None when nothing matches.
func FindTree(ui *widget.UserInterface, node widget.Handle, path string) widget.Handle {
	if strings.TrimSpace(path) == "" {
		return widget.None
	}
	want := filepath.Clean(path)
	var (
		best      widget.Handle
		bestDepth = -1
	)
	var walk func(h widget.Handle) bool
	walk = func(h widget.Handle) bool {
		c, ok := ui.TryNode(h)
		if !ok {
			return false
		}
		var items []widget.Handle
		switch n := c.(type) {
		case *tree.Tree:
			own := filepath.Clean(widget.UserDataOf[string](n))
			if own == want {
				best = h
				return true
			}
			if isAncestor(own, want) {
				if d := depth(own); d > bestDepth {
					best, bestDepth = h, d
				}
			}
			items = n.Items()
		case *tree.TreeRoot:
			items = n.Items()
		default:
			return false
		}
		for _, item := range items {
			if walk(item) {
				return true
			}
		}
		return false
	}
	walk(node)
	return best
}

// isAncestor reports whether dir is a proper ancestor of path. Both must
// already be clean.
func isAncestor(dir, path string) bool {
	if dir == path {
		return false
	}
	sep := string(filepath.Separator)
	if strings.HasSuffix(dir, sep) {
		return strings.HasPrefix(path, dir)
	}
	return strings.HasPrefix(path, dir+sep)
}

func depth(path string) int {
	return strings.Count(path, string(filepath.Separator))
}
