package widget

import (
	"fmt"
	"slices"

	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
)

// UserInterface owns the node arena and the message queue. All mutation
// happens on the goroutine that calls ProcessMessages.
type UserInterface struct {
	arena *Arena
	root  Handle
	queue []*Message
}

// New creates a UI with an empty root panel.
func New() *UserInterface {
	ui := &UserInterface{arena: NewArena()}
	root := &StackPanel{Widget: NewBuilder().WithName("root").Build()}
	ui.root = ui.arena.Add(root)
	root.handle = ui.root
	return ui
}

// Root returns the handle of the top-level panel.
func (ui *UserInterface) Root() Handle {
	return ui.root
}

// AddNode stores c, links it under the root panel and links the children
// gathered by its builder under it.
func (ui *UserInterface) AddNode(c Control) Handle {
	w := c.Base()
	children := w.children
	w.children = nil
	h := ui.arena.Add(c)
	w.handle = h
	w.parent = None
	ui.LinkNodes(h, ui.root)
	for _, child := range children {
		ui.LinkNodes(child, h)
	}
	return h
}

// IsValid reports whether h addresses a live node.
func (ui *UserInterface) IsValid(h Handle) bool {
	return ui.arena.IsValid(h)
}

// TryNode returns the control at h, if any.
func (ui *UserInterface) TryNode(h Handle) (Control, bool) {
	return ui.arena.Get(h)
}

// Node returns the control at h and panics on a stale handle.
func (ui *UserInterface) Node(h Handle) Control {
	c, ok := ui.arena.Get(h)
	if !ok {
		panic(fmt.Sprintf("widget: stale or empty handle %s", h))
	}
	return c
}

// Children returns the children of h.
func (ui *UserInterface) Children(h Handle) []Handle {
	return ui.Node(h).Base().children
}

// Parent returns the parent of h.
func (ui *UserInterface) Parent(h Handle) Handle {
	return ui.Node(h).Base().parent
}

// Len returns the number of live nodes, including the root.
func (ui *UserInterface) Len() int {
	return ui.arena.Len()
}

// LinkNodes makes child the last child of parent, detaching it from its
// previous parent first.
func (ui *UserInterface) LinkNodes(child, parent Handle) {
	c := ui.Node(child).Base()
	p := ui.Node(parent).Base()
	ui.unlink(c)
	c.parent = parent
	p.children = append(p.children, child)
}

func (ui *UserInterface) unlink(c *Widget) {
	if c.parent.IsNone() {
		return
	}
	if old, ok := ui.arena.Get(c.parent); ok {
		ow := old.Base()
		if i := slices.Index(ow.children, c.handle); i >= 0 {
			ow.children = slices.Delete(ow.children, i, i+1)
		}
	}
	c.parent = None
}

// FindUp walks from start towards the root and returns the first node that
// satisfies pred.
func (ui *UserInterface) FindUp(start Handle, pred func(Control) bool) Handle {
	for h := start; h.IsSome(); {
		c, ok := ui.arena.Get(h)
		if !ok {
			return None
		}
		if pred(c) {
			return h
		}
		h = c.Base().parent
	}
	return None
}

// RemoveNode frees h and its whole subtree, then lets every surviving
// control forget the freed handles. It returns the freed handles.
func (ui *UserInterface) RemoveNode(h Handle) []Handle {
	c, ok := ui.arena.Get(h)
	if !ok || h == ui.root {
		return nil
	}
	ui.unlink(c.Base())
	var freed []Handle
	stack := []Handle{h}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		node, ok := ui.arena.Get(cur)
		if !ok {
			continue
		}
		stack = append(stack, node.Base().children...)
		ui.arena.Free(cur)
		freed = append(freed, cur)
	}
	ui.arena.Each(func(_ Handle, survivor Control) {
		for _, gone := range freed {
			survivor.RemoveRef(gone)
		}
	})
	return freed
}

// CopyNode clones the subtree rooted at h. Every node is raw-copied first,
// then each copy resolves its internal handles through the old→new mapping.
// The copy is linked under the root panel.
func (ui *UserInterface) CopyNode(h Handle) Handle {
	mapping := make(NodeHandleMapping)
	copied := ui.copyRaw(h, mapping)
	for _, nh := range mapping {
		ui.Node(nh).Resolve(mapping)
	}
	return copied
}

func (ui *UserInterface) copyRaw(h Handle, mapping NodeHandleMapping) Handle {
	src := ui.Node(h)
	children := slices.Clone(src.Base().children)
	dup := src.Clone()
	dup.Base().children = nil
	nh := ui.AddNode(dup)
	mapping[h] = nh
	for _, child := range children {
		ui.LinkNodes(ui.copyRaw(child, mapping), nh)
	}
	return nh
}

// Send queues a message for dest.
func (ui *UserInterface) Send(dest Handle, data Payload) {
	ui.SendMessage(Message{Destination: dest, Data: data})
}

// SendMessage queues msg. Messages sent from a handler are delivered after
// that handler returns.
func (ui *UserInterface) SendMessage(msg Message) {
	m := msg
	ui.queue = append(ui.queue, &m)
}

// Pending returns the number of queued messages.
func (ui *UserInterface) Pending() int {
	return len(ui.queue)
}

// ProcessMessages delivers queued messages in FIFO order until the queue is
// empty and returns how many were delivered.
func (ui *UserInterface) ProcessMessages() int {
	n := 0
	for len(ui.queue) > 0 {
		msg := ui.queue[0]
		ui.queue[0] = nil
		ui.queue = ui.queue[1:]
		ui.dispatch(msg)
		n++
	}
	ui.queue = nil
	return n
}

func (ui *UserInterface) dispatch(msg *Message) {
	dest, ok := ui.arena.Get(msg.Destination)
	if !ok {
		events.Dispatch.Drop(msg.Destination.String(), fmt.Sprintf("%T", msg.Data))
		return
	}
	if want := msg.Data.Target(); want != KindAny && dest.Kind() != want {
		panic(fmt.Sprintf("widget: %T sent to %s %s, want %s", msg.Data, dest.Kind(), msg.Destination, want))
	}
	events.Dispatch.Message(msg.Destination.String(), fmt.Sprintf("%T", msg.Data))
	if _, ok := msg.Data.(Remove); ok {
		ui.RemoveNode(msg.Destination)
		return
	}
	for h := msg.Destination; h.IsSome(); {
		c, ok := ui.arena.Get(h)
		if !ok {
			return
		}
		c.HandleRoutedMessage(ui, msg)
		h = c.Base().parent
	}
}

// Arrange runs the arrange pass over every visible node reachable from the
// root. It may queue messages; call ProcessMessages afterwards.
func (ui *UserInterface) Arrange() {
	stack := []Handle{ui.root}
	for len(stack) > 0 {
		n := len(stack) - 1
		h := stack[n]
		stack = stack[:n]
		c, ok := ui.arena.Get(h)
		if !ok || !c.Base().visible {
			continue
		}
		if a, ok := c.(Arranger); ok {
			a.Arrange(ui)
		}
		children := c.Base().children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Update processes pending messages, arranges, and processes whatever the
// arrange pass queued.
func (ui *UserInterface) Update() {
	ui.ProcessMessages()
	ui.Arrange()
	ui.ProcessMessages()
}
