// Package btree walks the version 1 B-trees that index old-style groups.
//
// A group B-tree ("TREE", node type 0) has symbol table nodes ("SNOD") as
// leaves; each SNOD holds up to 2K entries whose names live in the group's
// local heap.
package btree

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/heap"
)

// ErrCorrupt is returned for malformed or cyclic trees.
var ErrCorrupt = errors.New("btree: corrupt group index")

// maxDepth bounds recursion in a malformed tree.
const maxDepth = 64

// Symbol table entry cache types.
const (
	cacheNone    = 0
	cacheHeader  = 1
	cacheSymlink = 2
)

// Entry is one member of an old-style group.
type Entry struct {
	Name    string
	Address uint64 // object header, zero for soft links
	Soft    bool
	Target  string // soft link value
}

// GroupEntries returns the members of the group indexed by the tree at
// root, in B-tree (name) order.
func GroupEntries(image []byte, sizes binary.Sizes, root uint64, names *heap.Local) ([]Entry, error) {
	w := &walker{
		d:       binary.NewDecoder(image, sizes),
		names:   names,
		visited: map[uint64]bool{},
	}
	if err := w.node(root, 0); err != nil {
		return nil, err
	}
	return w.entries, nil
}

type walker struct {
	d       *binary.Decoder
	names   *heap.Local
	visited map[uint64]bool
	entries []Entry
}

func (w *walker) node(addr uint64, depth int) error {
	if depth > maxDepth || w.visited[addr] {
		return fmt.Errorf("%w: node at %d revisited or too deep", ErrCorrupt, addr)
	}
	w.visited[addr] = true

	d := w.d.At(addr)
	if !d.Signature("TREE") {
		return fmt.Errorf("%w: %v", ErrCorrupt, d.Err())
	}
	if typ := d.Uint8(); typ != 0 {
		return fmt.Errorf("%w: node type %d is not a group node", ErrCorrupt, typ)
	}
	level := d.Uint8()
	used := int(d.Uint16())
	d.Offset() // left sibling
	d.Offset() // right sibling

	children := make([]uint64, 0, used)
	for i := 0; i < used; i++ {
		d.Length() // key: heap offset of the largest name to the left
		children = append(children, d.Offset())
	}
	if err := d.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	for _, child := range children {
		var err error
		if level == 0 {
			err = w.symbols(child)
		} else {
			err = w.node(child, depth+1)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) symbols(addr uint64) error {
	d := w.d.At(addr)
	if !d.Signature("SNOD") {
		return fmt.Errorf("%w: %v", ErrCorrupt, d.Err())
	}
	if v := d.Uint8(); v != 1 {
		return fmt.Errorf("%w: symbol node version %d", ErrCorrupt, v)
	}
	d.Skip(1)
	count := int(d.Uint16())

	for i := 0; i < count; i++ {
		nameOff := d.Offset()
		objAddr := d.Offset()
		cache := d.Uint32()
		d.Skip(4)
		scratch := d.Bytes(16)
		if err := d.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		name, err := w.names.String(nameOff)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		e := Entry{Name: name, Address: objAddr}
		if cache == cacheSymlink {
			off := uint64(scratch[0]) | uint64(scratch[1])<<8 | uint64(scratch[2])<<16 | uint64(scratch[3])<<24
			if e.Target, err = w.names.String(off); err != nil {
				return fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			e.Soft = true
			e.Address = 0
		}
		w.entries = append(w.entries, e)
	}
	return nil
}
