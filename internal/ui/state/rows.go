package state

import (
	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

// Row is one visible line of a tree: a Tree whose ancestors are all
// expanded.
type Row struct {
	Tree       widget.Handle
	Expander   widget.Handle
	Content    widget.Handle
	Background widget.Handle
	Path       string
	Label      string
	Marker     string
	Depth      int
	Expandable bool
	Expanded   bool
	Selected   bool
	Brush      widget.Brush
}

// Rows tracks the flattened tree together with cursor and viewport.
type Rows struct {
	Items          []Row
	Cursor         int
	ViewportOffset int
}

// Flatten walks the items of root depth-first, descending only into
// expanded trees.
func Flatten(ui *widget.UserInterface, root widget.Handle) []Row {
	r, ok := ui.TryNode(root)
	if !ok {
		return nil
	}
	tr, ok := r.(*tree.TreeRoot)
	if !ok {
		return nil
	}
	var rows []Row
	var walk func(items []widget.Handle, depth int)
	walk = func(items []widget.Handle, depth int) {
		for _, h := range items {
			c, ok := ui.TryNode(h)
			if !ok {
				continue
			}
			t, ok := c.(*tree.Tree)
			if !ok {
				continue
			}
			rows = append(rows, rowFor(ui, h, t, depth))
			if t.IsExpanded() {
				walk(t.Items(), depth+1)
			}
		}
	}
	walk(tr.Items(), 0)
	return rows
}

func rowFor(ui *widget.UserInterface, h widget.Handle, t *tree.Tree, depth int) Row {
	row := Row{
		Tree:       h,
		Expander:   t.Expander(),
		Content:    t.Content(),
		Background: t.ItemBackground(),
		Depth:      depth,
		Expanded:   t.IsExpanded(),
		Selected:   t.IsSelected(),
	}
	if path, ok := t.UserData().(string); ok {
		row.Path = path
	}
	if c, ok := ui.TryNode(row.Content); ok {
		if text, ok := c.(*widget.Text); ok {
			row.Label = text.Text()
		}
	}
	if c, ok := ui.TryNode(row.Expander); ok {
		row.Expandable = c.Base().Visible()
		if button, ok := c.(*widget.Button); ok {
			if label, ok := ui.TryNode(button.Content()); ok {
				if text, ok := label.(*widget.Text); ok {
					row.Marker = text.Text()
				}
			}
		}
	}
	if c, ok := ui.TryNode(row.Background); ok {
		row.Brush = c.Base().Background()
	}
	return row
}

// SetItems replaces the rows, keeping the cursor on the same tree when it
// is still visible.
func (r *Rows) SetItems(items []Row) {
	var current widget.Handle
	if row, ok := r.Current(); ok {
		current = row.Tree
	}
	r.Items = items
	if idx := r.IndexOf(current); idx >= 0 {
		r.Cursor = idx
	}
	if r.Cursor >= len(r.Items) {
		r.Cursor = len(r.Items) - 1
	}
	if r.Cursor < 0 {
		r.Cursor = 0
	}
}

// IndexOf returns the row index for a tree handle, or -1.
func (r *Rows) IndexOf(h widget.Handle) int {
	if h.IsNone() {
		return -1
	}
	for i, row := range r.Items {
		if row.Tree == h {
			return i
		}
	}
	return -1
}

// Current returns the row under the cursor.
func (r *Rows) Current() (Row, bool) {
	if r.Cursor < 0 || r.Cursor >= len(r.Items) {
		return Row{}, false
	}
	return r.Items[r.Cursor], true
}

// ParentIndex returns the index of the closest row above idx with a
// smaller depth, or -1 for top-level rows.
func (r *Rows) ParentIndex(idx int) int {
	if idx < 0 || idx >= len(r.Items) {
		return -1
	}
	depth := r.Items[idx].Depth
	for i := idx - 1; i >= 0; i-- {
		if r.Items[i].Depth < depth {
			return i
		}
	}
	return -1
}

// At maps a visible line (0 is the first row on screen) to a row index.
func (r *Rows) At(line int) (int, bool) {
	if line < 0 {
		return -1, false
	}
	idx := r.ViewportOffset + line
	if idx >= len(r.Items) {
		return -1, false
	}
	return idx, true
}
