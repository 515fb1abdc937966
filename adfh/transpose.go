package adfh

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

// Files written before the current indexing convention carry the legacy
// " version" stamp on the root and store multi-dimensional extents with
// the fastest varying dimension first.

// swapped reports whether the file holding root uses the current
// convention, in which stored extents are the reverse of caller extents.
func swapped(root *hdf5.Group) bool {
	return !root.Has(hiddenLegacyStamp)
}

// reversed returns a reversed copy of v.
func reversed[T any](v []T) []T {
	out := slices.Clone(v)
	slices.Reverse(out)
	return out
}

// migrate converts a legacy file in place: every multi-dimensional payload
// gets its extents reversed, then the stamp is renamed. Only metadata
// changes; the payload bytes stay where they are.
func (s *Session) migrate(root *hdf5.Group) error {
	if swapped(root) {
		return nil
	}
	n, err := fixDimensions(root)
	if err != nil {
		return err
	}
	if root.Has(hiddenVersion) {
		if err := root.Unlink(hiddenLegacyStamp); err != nil {
			return fail(ErrGUnlink, err)
		}
	} else if err := root.Move(hiddenLegacyStamp, root, hiddenVersion); err != nil {
		return fail(ErrGMove, err)
	}
	s.log.WithFields(logrus.Fields{"file": root.File().Path(), "datasets": n}).Info("migrated dimension order")
	return nil
}

// fixDimensions visits the children of g before g itself and reverses
// the extents of each payload of rank two or more. Links are not entered.
func fixDimensions(g *hdf5.Group) (int, error) {
	n := 0
	for _, c := range visible(g) {
		if isLinkNode(c.g) {
			continue
		}
		k, err := fixDimensions(c.g)
		if err != nil {
			return n, err
		}
		n += k
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok || d.Rank() < 2 {
		return n, nil
	}
	dims := d.Dims()
	rev := reversed(dims)
	if slices.Equal(dims, rev) {
		return n, nil
	}
	if err := d.SetExtent(rev); err != nil {
		return n, fail(ErrDExtend, err)
	}
	return n + 1, nil
}
