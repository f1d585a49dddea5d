package ecs

import "fmt"

// EntityID identifies an actor slot: the lower 32 bits are the slot index,
// the upper 32 bits the slot generation. Index 0 is never handed out, so the
// zero EntityID always means "not registered".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Generation())
}

// EntityPool hands out generational IDs and recycles freed slots.
// It is not goroutine-safe; the owner serialises access (world.Registry
// only touches it under its write lock).
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	live        int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		// slot 0 is reserved for the zero ID
		generations: make([]uint32, 1, 128),
		freeList:    make([]uint32, 0, 32),
	}
}

// Create returns a fresh ID, reusing a freed slot with its bumped generation
// when one is available.
func (p *EntityPool) Create() EntityID {
	p.live++
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 0)
	return NewEntityID(idx, 0)
}

// Alive reports whether id still refers to a live slot.
func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy invalidates id. Stale or unknown IDs are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	idx := id.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.live--
}

// Len returns the number of live IDs.
func (p *EntityPool) Len() int { return p.live }
