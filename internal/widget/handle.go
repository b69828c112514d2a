package widget

import "fmt"

// Handle addresses a node slot in an Arena. The zero value is None.
type Handle struct {
	index      uint32
	generation uint32
}

// None is the handle that points at nothing.
var None = Handle{}

// IsNone reports whether the handle points at nothing.
func (h Handle) IsNone() bool {
	return h.generation == 0
}

// IsSome reports whether the handle carries an identity. It says nothing
// about whether that identity is still alive; use UserInterface.IsValid.
func (h Handle) IsSome() bool {
	return h.generation != 0
}

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

// NodeHandleMapping maps handles of a source subtree onto their copies.
type NodeHandleMapping map[Handle]Handle

// Require returns the copy of h or panics. A missing structural handle
// means the clone is broken and cannot be repaired at runtime.
func (m NodeHandleMapping) Require(h Handle, field string) Handle {
	mapped, ok := m[h]
	if !ok {
		panic(fmt.Sprintf("widget: resolve: no mapping for required handle %s (%s)", h, field))
	}
	return mapped
}

// Optional returns the copy of h, or h unchanged when there is no mapping.
func (m NodeHandleMapping) Optional(h Handle) Handle {
	if mapped, ok := m[h]; ok {
		return mapped
	}
	return h
}

// Items remaps a handle list, dropping entries that have no copy.
func (m NodeHandleMapping) Items(items []Handle) []Handle {
	if len(items) == 0 {
		return nil
	}
	out := make([]Handle, 0, len(items))
	for _, h := range items {
		if mapped, ok := m[h]; ok {
			out = append(out, mapped)
		}
	}
	return out
}
