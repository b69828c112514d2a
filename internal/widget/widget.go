package widget

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Kind identifies the concrete control stored in a node.
type Kind uint8

const (
	// KindAny is used by payloads that may target any control.
	KindAny Kind = iota
	KindBorder
	KindStackPanel
	KindText
	KindButton
	KindTextBox
	KindTree
	KindTreeRoot
	KindFileBrowser
)

var kindNames = [...]string{
	KindAny:         "any",
	KindBorder:      "border",
	KindStackPanel:  "stack-panel",
	KindText:        "text",
	KindButton:      "button",
	KindTextBox:     "text-box",
	KindTree:        "tree",
	KindTreeRoot:    "tree-root",
	KindFileBrowser: "file-browser",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Brush is a solid fill. The zero value is transparent.
type Brush struct {
	Fill lipgloss.Color
}

// Transparent paints nothing.
var Transparent = Brush{}

// Solid returns an opaque brush for the given RGB triple.
func Solid(r, g, b uint8) Brush {
	return Brush{Fill: lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))}
}

// IsTransparent reports whether the brush paints nothing.
func (b Brush) IsTransparent() bool {
	return b.Fill == ""
}

// Control is implemented by every node kind stored in the arena.
type Control interface {
	Base() *Widget
	Kind() Kind
	// Clone returns a raw copy whose handles still point into the source
	// subtree. Resolve repairs them once the copies exist.
	Clone() Control
	Resolve(m NodeHandleMapping)
	HandleRoutedMessage(ui *UserInterface, msg *Message)
	// RemoveRef is called for every handle freed from the arena so the
	// control can forget it.
	RemoveRef(h Handle)
}

// Arranger is implemented by controls that update state on every arrange
// pass.
type Arranger interface {
	Arrange(ui *UserInterface)
}

// Widget holds the state shared by every control.
type Widget struct {
	handle     Handle
	parent     Handle
	children   []Handle
	name       string
	visible    bool
	background Brush
	userData   any
}

func (w *Widget) Base() *Widget { return w }

func (w *Widget) Handle() Handle     { return w.handle }
func (w *Widget) Parent() Handle     { return w.parent }
func (w *Widget) Children() []Handle { return w.children }
func (w *Widget) Name() string       { return w.name }
func (w *Widget) Visible() bool      { return w.visible }
func (w *Widget) Background() Brush  { return w.background }
func (w *Widget) UserData() any      { return w.userData }

// RawCopy duplicates the widget state. Hierarchy links are left pointing at
// the source; UserInterface.CopyNode rebuilds them.
func (w *Widget) RawCopy() Widget {
	c := *w
	c.children = slices.Clone(w.children)
	return c
}

// Resolve is a no-op for controls without structural handles.
func (w *Widget) Resolve(NodeHandleMapping) {}

// RemoveRef is a no-op for controls without structural handles.
func (w *Widget) RemoveRef(Handle) {}

// HandleRoutedMessage applies generic widget messages addressed to w.
func (w *Widget) HandleRoutedMessage(_ *UserInterface, msg *Message) {
	if msg.Destination != w.handle {
		return
	}
	switch data := msg.Data.(type) {
	case Visibility:
		w.visible = data.Visible
	case Background:
		w.background = data.Brush
	}
}

// UserDataOf returns the payload attached to c. A missing or mistyped
// payload is a programming error and panics.
func UserDataOf[T any](c Control) T {
	v, ok := c.Base().userData.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("widget: user data of %s %s is %T, want %T", c.Kind(), c.Base().handle, c.Base().userData, zero))
	}
	return v
}

// Builder collects the common widget options used by every control builder.
type Builder struct {
	name       string
	visible    bool
	background Brush
	userData   any
	children   []Handle
}

// NewBuilder returns a builder for a visible, transparent widget.
func NewBuilder() *Builder {
	return &Builder{visible: true}
}

func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) WithVisibility(visible bool) *Builder {
	b.visible = visible
	return b
}

func (b *Builder) WithBackground(brush Brush) *Builder {
	b.background = brush
	return b
}

// WithUserData attaches an immutable payload to the widget.
func (b *Builder) WithUserData(data any) *Builder {
	b.userData = data
	return b
}

// WithChild adds child unless it is None.
func (b *Builder) WithChild(child Handle) *Builder {
	if child.IsSome() {
		b.children = append(b.children, child)
	}
	return b
}

func (b *Builder) WithChildren(children ...Handle) *Builder {
	for _, c := range children {
		b.WithChild(c)
	}
	return b
}

// Build produces the widget state. Children are linked by
// UserInterface.AddNode.
func (b *Builder) Build() Widget {
	return Widget{
		name:       b.name,
		visible:    b.visible,
		background: b.background,
		userData:   b.userData,
		children:   slices.Clone(b.children),
	}
}
