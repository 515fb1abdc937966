package adfh

import (
	"iter"
	"slices"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

// child is one visible child: the name it is linked under and its group.
type child struct {
	name string
	g    *hdf5.Group
}

// visible yields the visible children of g in enumeration order, numbered
// from 0. Hidden entries and anything that is not a hard-linked group are
// skipped.
func visible(g *hdf5.Group) iter.Seq2[int, child] {
	return func(yield func(int, child) bool) {
		i := 0
		for _, l := range g.Members() {
			if isHidden(l.Name) || l.Kind != hdf5.LinkHard {
				continue
			}
			c, ok := l.Object().(*hdf5.Group)
			if !ok {
				continue
			}
			if !yield(i, child{name: l.Name, g: c}) {
				return
			}
			i++
		}
	}
}

func countChildren(g *hdf5.Group) int {
	n := 0
	for range visible(g) {
		n++
	}
	return n
}

// lookupChild finds the visible child called name.
func lookupChild(g *hdf5.Group, name string) (child, bool) {
	for _, c := range visible(g) {
		if c.name == name {
			return c, true
		}
	}
	return child{}, false
}

// isChild compares object identity, so a stale or foreign handle with a
// matching name is not mistaken for the child.
func isChild(parent, g *hdf5.Group) (child, bool) {
	for _, c := range visible(parent) {
		if c.g.ObjectID() == g.ObjectID() {
			return c, true
		}
	}
	return child{}, false
}

// window returns the children whose ordinal falls in [start, start+n),
// sorted by ordinal.
func window(g *hdf5.Group, order orderPolicy, start, n int) ([]child, error) {
	type ranked struct {
		child
		ord int
	}
	var picked []ranked
	for i, c := range visible(g) {
		ord, err := order.ordinal(i, c.g)
		if err != nil {
			return nil, err
		}
		if ord >= start && ord < start+n {
			picked = append(picked, ranked{c, ord})
		}
	}
	slices.SortStableFunc(picked, func(a, b ranked) int { return a.ord - b.ord })

	out := make([]child, len(picked))
	for i, r := range picked {
		out[i] = r.child
	}
	return out, nil
}

// deleteTree removes the visible children of g depth first. Link nodes
// lose their own entries but their targets are left alone.
func deleteTree(g *hdf5.Group) error {
	var kids []child
	for _, c := range visible(g) {
		kids = append(kids, c)
	}
	for _, c := range kids {
		if !isLinkNode(c.g) {
			if err := deleteTree(c.g); err != nil {
				return err
			}
		}
		if err := g.Unlink(c.name); err != nil {
			return fail(ErrGUnlink, err)
		}
	}
	return nil
}
