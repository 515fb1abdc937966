package adfh

import (
	"github.com/robert-malhotra/go-adfh/hdf5"
)

// orderPolicy is where a child's position among its siblings comes from.
type orderPolicy interface {
	// ordinal is the position of the child found at enumeration index i.
	ordinal(i int, g *hdf5.Group) (int, error)
	// place records that g now sits at position pos of its parent.
	place(g *hdf5.Group, pos int) error
	// removed closes the gap a child at position pos left in parent.
	removed(parent *hdf5.Group, pos int) error
	// position returns the recorded position of g, if the policy keeps one.
	position(g *hdf5.Group) (int, bool)
}

func newOrderPolicy(name string) orderPolicy {
	if name == OrderExplicit {
		return explicitOrder{}
	}
	return counterOrder{}
}

// counterOrder numbers children as the container enumerates them, which
// is link creation order. Nothing is stored.
type counterOrder struct{}

func (counterOrder) ordinal(i int, _ *hdf5.Group) (int, error) { return i, nil }
func (counterOrder) place(*hdf5.Group, int) error              { return nil }
func (counterOrder) removed(*hdf5.Group, int) error            { return nil }
func (counterOrder) position(*hdf5.Group) (int, bool)          { return 0, false }

// explicitOrder keeps a 0-based order attribute on every child.
type explicitOrder struct{}

func (explicitOrder) ordinal(_ int, g *hdf5.Group) (int, error) {
	return getInt(g, attrOrder)
}

func (explicitOrder) place(g *hdf5.Group, pos int) error {
	return putInt(g, attrOrder, pos)
}

func (explicitOrder) position(g *hdf5.Group) (int, bool) {
	pos, err := getInt(g, attrOrder)
	return pos, err == nil
}

// removed shifts every sibling after pos down by one.
func (explicitOrder) removed(parent *hdf5.Group, pos int) error {
	for _, c := range visible(parent) {
		ord, err := getInt(c.g, attrOrder)
		if err != nil {
			return err
		}
		if ord > pos {
			if err := setInt(c.g, attrOrder, ord-1); err != nil {
				return err
			}
		}
	}
	return nil
}
