package tree

import (
	"slices"

	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

// TreeRoot holds the top-level items of a hierarchy and is the only place
// where selection changes. At most one Tree beneath it is highlighted, and
// that Tree is Selected().
type TreeRoot struct {
	widget.Widget
	panel    widget.Handle
	items    []widget.Handle
	selected widget.Handle
}

func (r *TreeRoot) Kind() widget.Kind { return widget.KindTreeRoot }

func (r *TreeRoot) Clone() widget.Control {
	c := *r
	c.Widget = r.RawCopy()
	c.items = slices.Clone(r.items)
	return &c
}

func (r *TreeRoot) Resolve(m widget.NodeHandleMapping) {
	r.panel = m.Require(r.panel, "tree-root.panel")
	r.items = m.Items(r.items)
	if r.selected.IsSome() {
		if mapped, ok := m[r.selected]; ok {
			r.selected = mapped
		} else {
			r.selected = widget.None
		}
	}
}

func (r *TreeRoot) Panel() widget.Handle    { return r.panel }
func (r *TreeRoot) Items() []widget.Handle  { return r.items }
func (r *TreeRoot) Selected() widget.Handle { return r.selected }

func (r *TreeRoot) HandleRoutedMessage(ui *widget.UserInterface, msg *widget.Message) {
	r.Widget.HandleRoutedMessage(ui, msg)
	if msg.Destination != r.Handle() {
		return
	}

	switch data := msg.Data.(type) {
	case widget.RootAddItem:
		ui.LinkNodes(data.Item, r.panel)
		r.items = appendItem(r.items, data.Item)
	case widget.RootRemoveItem:
		r.items = removeItem(ui, r.items, data.Item)
	case widget.RootItems:
		r.items = replaceItems(ui, r.panel, r.items, data.Items)
	case widget.RootSelected:
		r.selectTree(ui, data.Selected)
	}
}

// selectTree highlights target and clears every other Tree beneath the
// root. A target that is not a live Tree in this hierarchy changes nothing
// visible and leaves Selected() untouched.
func (r *TreeRoot) selectTree(ui *widget.UserInterface, target widget.Handle) {
	if r.selected == target {
		return
	}
	if !r.contains(ui, target) {
		return
	}
	stack := slices.Clone(ui.Children(r.Handle()))
	for len(stack) > 0 {
		n := len(stack) - 1
		h := stack[n]
		stack = stack[:n]
		node, ok := ui.TryNode(h)
		if !ok {
			continue
		}
		stack = append(stack, node.Base().Children()...)
		if _, ok := node.(*Tree); !ok {
			continue
		}
		selected := h == target
		ui.Send(h, widget.TreeHighlight{Selected: selected})
		if selected {
			r.selected = target
		}
	}
	events.Tree.Select(r.Handle().String(), target.String())
}

// contains reports whether target is a live Tree below r.
func (r *TreeRoot) contains(ui *widget.UserInterface, target widget.Handle) bool {
	node, ok := ui.TryNode(target)
	if !ok {
		return false
	}
	if _, ok := node.(*Tree); !ok {
		return false
	}
	return ui.FindUp(node.Base().Parent(), func(c widget.Control) bool {
		return c.Base().Handle() == r.Handle()
	}).IsSome()
}

func (r *TreeRoot) RemoveRef(h widget.Handle) {
	if r.panel == h {
		r.panel = widget.None
	}
	if r.selected == h {
		r.selected = widget.None
	}
	if i := slices.Index(r.items, h); i >= 0 {
		r.items = slices.Delete(r.items, i, i+1)
	}
}

// RootBuilder configures a TreeRoot before it is added to the UI.
type RootBuilder struct {
	widgetBuilder *widget.Builder
	items         []widget.Handle
}

func NewRootBuilder(wb *widget.Builder) *RootBuilder {
	return &RootBuilder{widgetBuilder: wb}
}

func (b *RootBuilder) WithItems(items ...widget.Handle) *RootBuilder {
	b.items = items
	return b
}

// Build adds the root and its panel to ui.
func (b *RootBuilder) Build(ui *widget.UserInterface) widget.Handle {
	panel := widget.BuildStackPanel(ui, widget.NewBuilder().WithName("items").WithChildren(b.items...))
	r := &TreeRoot{
		Widget: b.widgetBuilder.WithChild(panel).Build(),
		panel:  panel,
		items:  slices.Clone(b.items),
	}
	return ui.AddNode(r)
}
