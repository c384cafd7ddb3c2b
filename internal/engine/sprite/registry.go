package sprite

import (
	"fmt"
)

// BlockSize is the number of sprites carved from each pool block.
const BlockSize = 256

// slot names a forward-link field: 0 is the list head, id+1 is the next
// field of sprite id.
type slot int32

const headSlot slot = 0

func slotOf(id ID) slot {
	return slot(id) + 1
}

type block [BlockSize]Sprite

// Registry owns every sprite of a session.
//
// Pooled sprites are threaded on a free list. Active sprites form a list where
// each node records the slot that points at it, so unlinking never walks.
// The registry is not safe for concurrent use and must not be mutated while a
// frame is rendered or picked.
type Registry struct {
	blocks []*block
	head   ID
	free   ID
	active int
}

// NewRegistry creates an empty registry. The first block is allocated on the
// first New.
func NewRegistry() *Registry {
	return &Registry{head: Nil, free: Nil}
}

// Get returns the sprite for id, or nil if id was never allocated.
func (r *Registry) Get(id ID) *Sprite {
	if id < 0 || int(id) >= len(r.blocks)*BlockSize {
		return nil
	}
	return &r.blocks[id/BlockSize][id%BlockSize]
}

// New takes a zeroed sprite from the pool. It is not on the active list until
// Add is called.
func (r *Registry) New() ID {
	if r.free == Nil {
		r.grow()
	}
	id := r.free
	s := r.Get(id)
	r.free = s.next
	*s = Sprite{next: Nil}
	return id
}

// Add pushes id onto the front of the active list.
// Adding a sprite that is already active corrupts the list.
func (r *Registry) Add(id ID) {
	s := r.Get(id)
	s.next = r.head
	s.prevNext = headSlot
	if r.head != Nil {
		r.Get(r.head).prevNext = slotOf(id)
	}
	r.head = id
	s.linked = true
	r.active++
}

// Free unlinks id from the active list (if it is on it) and returns it to the
// pool. Freeing the same id twice corrupts the pool; callers drop their
// references in the same step.
func (r *Registry) Free(id ID) {
	s := r.Get(id)
	if s == nil {
		return
	}
	if s.linked {
		*r.link(s.prevNext) = s.next
		if s.next != Nil {
			r.Get(s.next).prevNext = s.prevNext
		}
		r.active--
	}
	*s = Sprite{next: r.free}
	r.free = id
}

// Clear frees every active sprite. Blocks are kept.
func (r *Registry) Clear() {
	for r.head != Nil {
		r.Free(r.head)
	}
}

// Head returns the first active sprite, or Nil.
func (r *Registry) Head() ID {
	return r.head
}

// Next returns the active sprite after id, or Nil.
func (r *Registry) Next(id ID) ID {
	s := r.Get(id)
	if s == nil || !s.linked {
		return Nil
	}
	return s.next
}

// Each calls fn for every active sprite, front to back, until fn returns false.
func (r *Registry) Each(fn func(id ID, s *Sprite) bool) {
	for id := r.head; id != Nil; {
		s := r.Get(id)
		next := s.next
		if !fn(id, s) {
			return
		}
		id = next
	}
}

// Len returns the number of active sprites.
func (r *Registry) Len() int {
	return r.active
}

// Capacity returns the number of sprites the allocated blocks can hold.
func (r *Registry) Capacity() int {
	return len(r.blocks) * BlockSize
}

// Validate walks the active list and checks that every node's back-reference
// names the slot holding it and that the length matches the active count.
func (r *Registry) Validate() error {
	want := headSlot
	n := 0
	for id := r.head; id != Nil; {
		s := r.Get(id)
		if s == nil {
			return fmt.Errorf("sprite %d: id outside the arena", id)
		}
		if !s.linked {
			return fmt.Errorf("sprite %d: on the active list but not marked linked", id)
		}
		if s.prevNext != want {
			return fmt.Errorf("sprite %d: back-reference %d, want %d", id, s.prevNext, want)
		}
		if *r.link(s.prevNext) != id {
			return fmt.Errorf("sprite %d: slot %d does not hold it", id, s.prevNext)
		}
		n++
		if n > r.Capacity() {
			return fmt.Errorf("active list has a cycle")
		}
		want = slotOf(id)
		id = s.next
	}
	if n != r.active {
		return fmt.Errorf("active list length %d, count %d", n, r.active)
	}
	return nil
}

func (r *Registry) link(sl slot) *ID {
	if sl == headSlot {
		return &r.head
	}
	return &r.Get(ID(sl - 1)).next
}

// grow allocates a block and threads it onto the free list so the lowest ids
// come out first.
func (r *Registry) grow() {
	base := ID(len(r.blocks) * BlockSize)
	b := new(block)
	r.blocks = append(r.blocks, b)
	for i := BlockSize - 1; i >= 0; i-- {
		b[i].next = r.free
		r.free = base + ID(i)
	}
}
