// Package filebrowser projects a directory hierarchy onto a TreeRoot. Trees
// are created lazily when their parent expands and discarded when it
// collapses; each Tree carries the path it stands for as user data.
package filebrowser

import (
	"path/filepath"

	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/tree"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

// FileBrowser keeps a path field, its own selection and the highlighted
// Tree in agreement.
type FileBrowser struct {
	widget.Widget
	treeRoot  widget.Handle
	pathText  widget.Handle
	path      string
	selection string
	filter    Filter
	lister    Lister
}

func (b *FileBrowser) Kind() widget.Kind { return widget.KindFileBrowser }

func (b *FileBrowser) Clone() widget.Control {
	c := *b
	c.Widget = b.RawCopy()
	return &c
}

func (b *FileBrowser) Resolve(m widget.NodeHandleMapping) {
	b.treeRoot = m.Require(b.treeRoot, "file-browser.tree-root")
	b.pathText = m.Require(b.pathText, "file-browser.path-text")
}

// RemoveRef forgets the path field or tree root once either is freed.
func (b *FileBrowser) RemoveRef(h widget.Handle) {
	if b.treeRoot == h {
		b.treeRoot = widget.None
	}
	if b.pathText == h {
		b.pathText = widget.None
	}
}

func (b *FileBrowser) TreeRoot() widget.Handle { return b.treeRoot }
func (b *FileBrowser) PathText() widget.Handle { return b.pathText }
func (b *FileBrowser) Path() string            { return b.path }
func (b *FileBrowser) Selection() string       { return b.selection }

func (b *FileBrowser) HandleRoutedMessage(ui *widget.UserInterface, msg *widget.Message) {
	b.Widget.HandleRoutedMessage(ui, msg)

	switch data := msg.Data.(type) {
	case widget.BrowserPath:
		if msg.Destination == b.Handle() {
			b.rebuild(ui, data.Path)
		}
	case widget.BrowserSelectionChanged:
		if msg.Destination == b.Handle() && data.Path != b.selection {
			b.commitSelection(ui, data.Path)
		}
	case widget.TextChanged:
		if msg.Destination == b.pathText {
			if t := FindTree(ui, b.treeRoot, data.Text); t.IsSome() {
				ui.Send(b.treeRoot, widget.RootSelected{Selected: t})
			}
		}
	case widget.TreeExpand:
		t, ok := ui.Node(msg.Destination).(*tree.Tree)
		if !ok {
			panic("filebrowser: expand message destination is not a tree")
		}
		if data.Expand {
			ui.Send(msg.Destination, widget.TreeSetItems{Items: b.enumerate(ui, t)})
		} else {
			ui.Send(msg.Destination, widget.TreeSetItems{})
		}
	case widget.RootSelected:
		if msg.Destination != b.treeRoot {
			return
		}
		node, ok := ui.TryNode(data.Selected)
		if !ok {
			return
		}
		if _, ok := node.(*tree.Tree); !ok {
			return
		}
		root, ok := ui.TryNode(b.treeRoot)
		if !ok || root.(*tree.TreeRoot).Selected() != data.Selected {
			return
		}
		if path := widget.UserDataOf[string](node); path != b.selection {
			ui.Send(b.Handle(), widget.BrowserSelectionChanged{Path: path})
		}
	}
}

// rebuild drops every item and starts over with a single collapsed root
// item for path.
func (b *FileBrowser) rebuild(ui *widget.UserInterface, path string) {
	b.path = path
	b.selection = ""
	ui.Send(b.pathText, widget.SetText{Text: path})
	ui.Send(b.treeRoot, widget.RootItems{})
	item := buildTreeItem(ui, b.lister, path, "")
	ui.Send(b.treeRoot, widget.RootAddItem{Item: item})
	events.Browser.Rebuild(path)
}

func (b *FileBrowser) commitSelection(ui *widget.UserInterface, path string) {
	t := FindTree(ui, b.treeRoot, path)
	if t.IsNone() {
		events.Browser.SelectionDropped(path)
		return
	}
	b.selection = path
	ui.Send(b.pathText, widget.SetText{Text: path})
	ui.Send(b.treeRoot, widget.RootSelected{Selected: t})
	events.Browser.SelectionChanged(path)
}

// enumerate builds one collapsed Tree per accepted entry of the directory
// t stands for. A directory that cannot be read has no children.
func (b *FileBrowser) enumerate(ui *widget.UserInterface, t *tree.Tree) []widget.Handle {
	dir := widget.UserDataOf[string](t)
	entries, err := b.lister.List(dir)
	if err != nil {
		events.Browser.EnumerateFailed(dir, err)
		return nil
	}
	sortEntries(entries)
	items := make([]widget.Handle, 0, len(entries))
	for _, entry := range entries {
		if b.filter != nil && !b.filter.Accept(entry.Path) {
			continue
		}
		items = append(items, buildTreeItem(ui, b.lister, entry.Path, dir))
	}
	events.Browser.Enumerate(dir, len(entries), len(items))
	return items
}

func buildTreeItem(ui *widget.UserInterface, lister Lister, path, parentPath string) widget.Handle {
	label := path
	if parentPath != "" {
		label = filepath.Base(path)
	}
	content := widget.BuildText(ui, widget.NewBuilder().WithName("label"), label)
	return tree.NewBuilder(widget.NewBuilder().WithUserData(path)).
		WithExpanded(false).
		WithAlwaysShowExpander(!isDirEmpty(lister, path)).
		WithContent(content).
		Build(ui)
}

// Builder configures a FileBrowser before it is added to the UI.
type Builder struct {
	widgetBuilder *widget.Builder
	path          string
	filter        Filter
	lister        Lister
}

func NewBuilder(wb *widget.Builder) *Builder {
	return &Builder{widgetBuilder: wb, lister: OSLister{}}
}

func (b *Builder) WithPath(path string) *Builder {
	b.path = path
	return b
}

// WithFilter sets the shared entry filter; nil accepts everything.
func (b *Builder) WithFilter(f Filter) *Builder {
	b.filter = f
	return b
}

// WithLister replaces the filesystem used for enumeration.
func (b *Builder) WithLister(l Lister) *Builder {
	if l != nil {
		b.lister = l
	}
	return b
}

// Build adds the browser, its path field and its tree root to ui.
func (b *Builder) Build(ui *widget.UserInterface) widget.Handle {
	pathText := widget.BuildTextBox(ui, widget.NewBuilder().WithName("path"), b.path)
	root := tree.NewRootBuilder(widget.NewBuilder().WithName("tree-root")).
		WithItems(buildTreeItem(ui, b.lister, b.path, "")).
		Build(ui)
	fb := &FileBrowser{
		Widget:   b.widgetBuilder.WithChild(pathText).WithChild(root).Build(),
		treeRoot: root,
		pathText: pathText,
		path:     b.path,
		filter:   b.filter,
		lister:   b.lister,
	}
	return ui.AddNode(fb)
}
