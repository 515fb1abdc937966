// Package alloc places metadata and raw data blocks in a file image that is
// being built from scratch.
//
// Allocation is append-only: each block lands at the current end of the
// image, optionally aligned. Bytes can be written into a block immediately
// (Place) or reserved now and filled later (Reserve + WriteAt), which is how
// the superblock at offset zero gets its final root address.
package alloc

import (
	"fmt"
	"sync"
)

// Allocation records one block handed out.
type Allocation struct {
	Addr uint64
	Size uint64
	Tag  string
}

// Stats summarizes an allocator's activity.
type Stats struct {
	Allocations uint64
	Bytes       uint64
	Padding     uint64
	Largest     uint64
}

// Allocator manages the address space of one image.
type Allocator struct {
	mu sync.Mutex

	base   uint64
	eof    uint64
	image  []byte
	blocks []Allocation
	stats  Stats
}

// New creates an allocator whose first block starts at base. The bytes
// below base are left zeroed for the caller to fill.
func New(base uint64) *Allocator {
	return &Allocator{
		base:  base,
		eof:   base,
		image: make([]byte, base),
	}
}

// Reserve allocates size bytes aligned to align and returns the address.
func (a *Allocator) Reserve(size, align uint64, tag string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if align > 1 {
		if r := a.eof % align; r != 0 {
			a.stats.Padding += align - r
			a.eof += align - r
		}
	}
	addr := a.eof
	if size == 0 {
		return addr
	}
	a.eof += size
	a.grow()

	a.blocks = append(a.blocks, Allocation{Addr: addr, Size: size, Tag: tag})
	a.stats.Allocations++
	a.stats.Bytes += size
	if size > a.stats.Largest {
		a.stats.Largest = size
	}
	return addr
}

// Place allocates room for b and copies it in.
func (a *Allocator) Place(b []byte, align uint64, tag string) uint64 {
	addr := a.Reserve(uint64(len(b)), align, tag)
	a.mu.Lock()
	copy(a.image[addr:], b)
	a.mu.Unlock()
	return addr
}

// WriteAt copies b into already reserved space.
func (a *Allocator) WriteAt(b []byte, addr uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if addr+uint64(len(b)) > a.eof {
		return fmt.Errorf("alloc: write of %d bytes at 0x%x past end 0x%x", len(b), addr, a.eof)
	}
	copy(a.image[addr:], b)
	return nil
}

func (a *Allocator) grow() {
	if uint64(len(a.image)) >= a.eof {
		return
	}
	n := uint64(cap(a.image))
	if n < a.eof {
		n = a.eof * 2
		img := make([]byte, a.eof, n)
		copy(img, a.image)
		a.image = img
		return
	}
	a.image = a.image[:a.eof]
}

// EOF returns the end of the allocated space.
func (a *Allocator) EOF() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eof
}

// Image returns the bytes built so far. The slice is owned by the allocator
// until it is no longer used.
func (a *Allocator) Image() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.image[:a.eof]
}

func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns a copy of every block handed out.
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Allocation, len(a.blocks))
	copy(out, a.blocks)
	return out
}

// Validate checks that blocks lie inside [base, eof) and never overlap.
// Blocks are handed out in increasing order, so neighbours suffice.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	prevEnd := a.base
	for _, b := range a.blocks {
		if b.Addr < prevEnd {
			return fmt.Errorf("alloc: block %q at 0x%x overlaps previous block ending at 0x%x", b.Tag, b.Addr, prevEnd)
		}
		prevEnd = b.Addr + b.Size
	}
	if prevEnd > a.eof {
		return fmt.Errorf("alloc: block ends at 0x%x past EOF 0x%x", prevEnd, a.eof)
	}
	return nil
}
