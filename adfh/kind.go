package adfh

import (
	"github.com/robert-malhotra/go-adfh/hdf5"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// Kind tells what a node holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindData
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindLink:
		return "link"
	}
	return "empty"
}

// view is a node with its type decoded once.
type view struct {
	g    *hdf5.Group
	code dtype.Code
	kind Kind
}

// describe reads the type attribute of g. A missing or unreadable type is
// reported as the attribute error.
func describe(g *hdf5.Group) (view, error) {
	raw, err := getString(g, attrType)
	if err != nil {
		return view{}, err
	}
	c, err := dtype.Parse(raw)
	if err != nil {
		return view{}, fail(InvalidDataType, err)
	}
	v := view{g: g, code: c}
	switch c {
	case dtype.MT:
		v.kind = KindEmpty
	case dtype.LK:
		v.kind = KindLink
	default:
		v.kind = KindData
	}
	return v, nil
}

func (v view) isLink() bool { return v.kind == KindLink }

// data returns the payload dataset, if any.
func (v view) data() (*hdf5.Dataset, bool) {
	return hiddenDataset(v.g, hiddenData)
}

// isLinkNode is describe for callers that only care about the marker.
func isLinkNode(g *hdf5.Group) bool {
	v, err := describe(g)
	return err == nil && v.isLink()
}
