// Package tree implements the collapsible Tree item and the TreeRoot
// container that owns selection for every Tree beneath it.
package tree

import (
	"slices"

	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/widget"
)

const (
	expandedLabel  = "-"
	collapsedLabel = "+"
)

var (
	DefaultSelectedBrush = widget.Solid(140, 140, 140)
	DefaultHoveredBrush  = widget.Solid(100, 100, 100)
	DefaultNormalBrush   = widget.Transparent
)

// Tree is a single expandable item: an expander button and optional content
// on a background row, followed by a panel holding the child items.
type Tree struct {
	widget.Widget
	expander   widget.Handle
	content    widget.Handle
	panel      widget.Handle
	background widget.Handle
	items      []widget.Handle

	isExpanded bool
	isSelected bool

	selectedBrush widget.Brush
	hoveredBrush  widget.Brush
	normalBrush   widget.Brush

	alwaysShowExpander bool
}

func (t *Tree) Kind() widget.Kind { return widget.KindTree }

func (t *Tree) Clone() widget.Control {
	c := *t
	c.Widget = t.RawCopy()
	c.items = slices.Clone(t.items)
	return &c
}

func (t *Tree) Resolve(m widget.NodeHandleMapping) {
	t.content = m.Optional(t.content)
	t.expander = m.Require(t.expander, "tree.expander")
	t.panel = m.Require(t.panel, "tree.panel")
	t.background = m.Require(t.background, "tree.background")
	t.items = m.Items(t.items)
}

func (t *Tree) Expander() widget.Handle       { return t.expander }
func (t *Tree) Content() widget.Handle        { return t.content }
func (t *Tree) Panel() widget.Handle          { return t.panel }
func (t *Tree) ItemBackground() widget.Handle { return t.background }
func (t *Tree) Items() []widget.Handle        { return t.items }
func (t *Tree) IsExpanded() bool              { return t.isExpanded }
func (t *Tree) IsSelected() bool              { return t.isSelected }
func (t *Tree) AlwaysShowExpander() bool      { return t.alwaysShowExpander }

// Arrange hides the expander of a leaf unless it is pinned visible.
func (t *Tree) Arrange(ui *widget.UserInterface) {
	if t.alwaysShowExpander {
		return
	}
	expander, ok := ui.TryNode(t.expander)
	if !ok {
		return
	}
	visible := len(t.items) > 0
	if expander.Base().Visible() != visible {
		ui.Send(t.expander, widget.Visibility{Visible: visible})
	}
}

func (t *Tree) HandleRoutedMessage(ui *widget.UserInterface, msg *widget.Message) {
	t.Widget.HandleRoutedMessage(ui, msg)

	switch data := msg.Data.(type) {
	case widget.Click:
		if msg.Destination == t.expander {
			ui.Send(t.Handle(), widget.TreeExpand{Expand: !t.isExpanded})
		}
	case widget.MouseDown:
		if msg.Handled {
			return
		}
		root := ui.FindUp(t.Parent(), isTreeRoot)
		if root.IsSome() {
			ui.Send(root, widget.RootSelected{Selected: t.Handle()})
			msg.Handled = true
		}
	case widget.MouseEnter:
		if msg.Handled {
			return
		}
		if !t.isSelected {
			ui.Send(t.background, widget.Background{Brush: t.hoveredBrush})
		}
		msg.Handled = true
	case widget.MouseLeave:
		if msg.Handled {
			return
		}
		if !t.isSelected {
			ui.Send(t.background, widget.Background{Brush: t.normalBrush})
		}
		msg.Handled = true
	case widget.TreeExpand:
		if msg.Destination == t.Handle() {
			t.expand(ui, data.Expand)
		}
	case widget.TreeAddItem:
		if msg.Destination == t.Handle() {
			ui.LinkNodes(data.Item, t.panel)
			t.items = appendItem(t.items, data.Item)
		}
	case widget.TreeRemoveItem:
		if msg.Destination == t.Handle() {
			t.items = removeItem(ui, t.items, data.Item)
		}
	case widget.TreeSetItems:
		if msg.Destination == t.Handle() {
			t.items = replaceItems(ui, t.panel, t.items, data.Items)
		}
	case widget.TreeHighlight:
		if msg.Destination == t.Handle() {
			t.isSelected = data.Selected
			brush := t.normalBrush
			if data.Selected {
				brush = t.selectedBrush
			}
			ui.Send(t.background, widget.Background{Brush: brush})
		}
	}
}

func (t *Tree) expand(ui *widget.UserInterface, expand bool) {
	t.isExpanded = expand
	ui.Send(t.panel, widget.Visibility{Visible: expand})
	if c, ok := ui.TryNode(t.expander); ok {
		if button, ok := c.(*widget.Button); ok {
			ui.Send(button.Content(), widget.SetText{Text: expanderLabel(expand)})
		}
	}
	events.Tree.Expand(t.Handle().String(), expand)
}

func (t *Tree) RemoveRef(h widget.Handle) {
	if t.expander == h {
		t.expander = widget.None
	}
	if t.content == h {
		t.content = widget.None
	}
	if t.panel == h {
		t.panel = widget.None
	}
	if t.background == h {
		t.background = widget.None
	}
	if i := slices.Index(t.items, h); i >= 0 {
		t.items = slices.Delete(t.items, i, i+1)
	}
}

func expanderLabel(expanded bool) string {
	if expanded {
		return expandedLabel
	}
	return collapsedLabel
}

func isTreeRoot(c widget.Control) bool {
	_, ok := c.(*TreeRoot)
	return ok
}

// removeItem drops item from items and asks the UI to free it. Unknown items
// are ignored.
func removeItem(ui *widget.UserInterface, items []widget.Handle, item widget.Handle) []widget.Handle {
	i := slices.Index(items, item)
	if i < 0 {
		return items
	}
	ui.Send(item, widget.Remove{})
	return slices.Delete(items, i, i+1)
}

// appendItem moves item to the end of items, as LinkNodes does with the
// panel's children, so an item is never listed twice.
func appendItem(items []widget.Handle, item widget.Handle) []widget.Handle {
	if i := slices.Index(items, item); i >= 0 {
		items = slices.Delete(items, i, i+1)
	}
	return append(items, item)
}

// replaceItems frees every current item that is not kept, links the new
// ones under panel in order and returns the new list.
func replaceItems(ui *widget.UserInterface, panel widget.Handle, current, next []widget.Handle) []widget.Handle {
	for _, item := range current {
		if !slices.Contains(next, item) {
			ui.Send(item, widget.Remove{})
		}
	}
	for _, item := range next {
		ui.LinkNodes(item, panel)
	}
	return slices.Clone(next)
}

// Builder configures a Tree before it is added to the UI.
type Builder struct {
	widgetBuilder      *widget.Builder
	items              []widget.Handle
	content            widget.Handle
	isExpanded         bool
	selectedBrush      widget.Brush
	hoveredBrush       widget.Brush
	normalBrush        widget.Brush
	alwaysShowExpander bool
}

// NewBuilder returns a builder for an expanded tree with the default brushes.
func NewBuilder(wb *widget.Builder) *Builder {
	return &Builder{
		widgetBuilder: wb,
		isExpanded:    true,
		selectedBrush: DefaultSelectedBrush,
		hoveredBrush:  DefaultHoveredBrush,
		normalBrush:   DefaultNormalBrush,
	}
}

func (b *Builder) WithItems(items ...widget.Handle) *Builder {
	b.items = items
	return b
}

func (b *Builder) WithContent(content widget.Handle) *Builder {
	b.content = content
	return b
}

func (b *Builder) WithExpanded(expanded bool) *Builder {
	b.isExpanded = expanded
	return b
}

func (b *Builder) WithAlwaysShowExpander(show bool) *Builder {
	b.alwaysShowExpander = show
	return b
}

// WithBrushes overrides the selected, hovered and normal backgrounds.
func (b *Builder) WithBrushes(selected, hovered, normal widget.Brush) *Builder {
	b.selectedBrush = selected
	b.hoveredBrush = hovered
	b.normalBrush = normal
	return b
}

// Build adds the tree and its parts to ui.
func (b *Builder) Build(ui *widget.UserInterface) widget.Handle {
	expander := widget.BuildButton(ui,
		widget.NewBuilder().
			WithName("expander").
			WithVisibility(b.alwaysShowExpander || len(b.items) > 0),
		expanderLabel(b.isExpanded))

	background := widget.BuildBorder(ui,
		widget.NewBuilder().
			WithName("item-background").
			WithBackground(b.normalBrush).
			WithChild(expander).
			WithChild(b.content))

	panel := widget.BuildStackPanel(ui,
		widget.NewBuilder().
			WithName("items").
			WithVisibility(b.isExpanded).
			WithChildren(b.items...))

	t := &Tree{
		Widget:             b.widgetBuilder.WithChild(background).WithChild(panel).Build(),
		expander:           expander,
		content:            b.content,
		panel:              panel,
		background:         background,
		items:              slices.Clone(b.items),
		isExpanded:         b.isExpanded,
		selectedBrush:      b.selectedBrush,
		hoveredBrush:       b.hoveredBrush,
		normalBrush:        b.normalBrush,
		alwaysShowExpander: b.alwaysShowExpander,
	}
	return ui.AddNode(t)
}
