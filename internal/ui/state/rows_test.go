package state

import (
	"testing"

	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

func leaf(ui *widget.UserInterface, path string) widget.Handle {
	content := widget.BuildText(ui, widget.NewBuilder(), path)
	return tree.NewBuilder(widget.NewBuilder().WithUserData(path)).WithContent(content).Build(ui)
}

func TestFlattenSkipsCollapsedChildren(t *testing.T) {
	ui := widget.New()
	hidden := leaf(ui, "hidden")
	closed := tree.NewBuilder(widget.NewBuilder().WithUserData("closed")).
		WithExpanded(false).
		WithItems(hidden).
		Build(ui)
	child := leaf(ui, "child")
	open := tree.NewBuilder(widget.NewBuilder().WithUserData("open")).
		WithItems(child, closed).
		Build(ui)
	root := tree.NewRootBuilder(widget.NewBuilder()).WithItems(open, leaf(ui, "last")).Build(ui)
	ui.Update()

	rows := Flatten(ui, root)
	want := []struct {
		path  string
		depth int
	}{{"open", 0}, {"child", 1}, {"closed", 1}, {"last", 0}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		if rows[i].Path != w.path || rows[i].Depth != w.depth {
			t.Fatalf("row %d: expected %s@%d, got %s@%d", i, w.path, w.depth, rows[i].Path, rows[i].Depth)
		}
	}
	if !rows[0].Expandable || !rows[0].Expanded {
		t.Fatalf("expected open row to be expandable and expanded: %+v", rows[0])
	}
	if !rows[2].Expandable || rows[2].Expanded {
		t.Fatalf("expected closed row to be expandable and collapsed: %+v", rows[2])
	}
	if rows[1].Expandable {
		t.Fatalf("leaf row should not be expandable")
	}
	if rows[1].Label != "child" {
		t.Fatalf("expected label from content text, got %q", rows[1].Label)
	}
}

func TestFlattenReportsSelection(t *testing.T) {
	ui := widget.New()
	a, b := leaf(ui, "a"), leaf(ui, "b")
	root := tree.NewRootBuilder(widget.NewBuilder()).WithItems(a, b).Build(ui)
	ui.Send(root, widget.RootSelected{Selected: b})
	ui.Update()

	rows := Flatten(ui, root)
	if rows[0].Selected || !rows[1].Selected {
		t.Fatalf("expected only b selected: %+v", rows)
	}
	if rows[1].Brush != tree.DefaultSelectedBrush {
		t.Fatalf("expected selected brush, got %+v", rows[1].Brush)
	}
	if Flatten(ui, a) != nil {
		t.Fatalf("flattening a non-root should yield nothing")
	}
}

func TestSetItemsFollowsTree(t *testing.T) {
	ui := widget.New()
	first := Row{Path: "/a"}
	r := newTestRows("a", "b", "c")
	for i := range r.Items {
		r.Items[i].Tree = leaf(ui, r.Items[i].Path)
	}
	target := r.Items[2].Tree
	r.Cursor = 2

	r.SetItems([]Row{first, r.Items[2]})
	if r.Cursor != 1 {
		t.Fatalf("expected cursor to follow tree to index 1, got %d", r.Cursor)
	}
	if row, _ := r.Current(); row.Tree != target {
		t.Fatalf("expected current row to be the same tree")
	}

	r.SetItems(nil)
	if r.Cursor != 0 {
		t.Fatalf("expected cursor 0 for empty rows, got %d", r.Cursor)
	}
	if _, ok := r.Current(); ok {
		t.Fatalf("expected no current row")
	}
}

func TestParentIndexAndAt(t *testing.T) {
	r := &Rows{Items: []Row{{Depth: 0}, {Depth: 1}, {Depth: 2}, {Depth: 1}, {Depth: 0}}}
	cases := map[int]int{0: -1, 1: 0, 2: 1, 3: 0, 4: -1, 9: -1}
	for idx, want := range cases {
		if got := r.ParentIndex(idx); got != want {
			t.Fatalf("ParentIndex(%d) = %d, want %d", idx, got, want)
		}
	}

	r.ViewportOffset = 2
	if idx, ok := r.At(1); !ok || idx != 3 {
		t.Fatalf("expected line 1 to map to row 3, got %d %v", idx, ok)
	}
	if _, ok := r.At(3); ok {
		t.Fatalf("expected line past the end to miss")
	}
	if _, ok := r.At(-1); ok {
		t.Fatalf("expected negative line to miss")
	}
}
