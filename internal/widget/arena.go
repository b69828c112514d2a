package widget

type slot struct {
	generation uint32
	control    Control
}

// Arena is a generational pool of controls. Freed slots are recycled with a
// bumped generation so handles to the previous occupant stop validating.
type Arena struct {
	slots []slot
	free  []uint32
	alive int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{slots: make([]slot, 0, 64)}
}

// Add stores c and returns its handle.
func (a *Arena) Add(c Control) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[idx]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.control = c
	a.alive++
	return Handle{index: idx, generation: s.generation}
}

// Get returns the control addressed by h.
func (a *Arena) Get(h Handle) (Control, bool) {
	if !a.IsValid(h) {
		return nil, false
	}
	return a.slots[h.index].control, true
}

// IsValid reports whether h addresses a live control.
func (a *Arena) IsValid(h Handle) bool {
	if h.IsNone() || int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.control != nil && s.generation == h.generation
}

// Free releases the slot addressed by h and returns its control.
func (a *Arena) Free(h Handle) (Control, bool) {
	if !a.IsValid(h) {
		return nil, false
	}
	s := &a.slots[h.index]
	c := s.control
	s.control = nil
	a.free = append(a.free, h.index)
	a.alive--
	return c, true
}

// Len returns the number of live controls.
func (a *Arena) Len() int {
	return a.alive
}

// Each calls fn for every live control in slot order.
func (a *Arena) Each(fn func(Handle, Control)) {
	for i, s := range a.slots {
		if s.control == nil {
			continue
		}
		fn(Handle{index: uint32(i), generation: s.generation}, s.control)
	}
}
