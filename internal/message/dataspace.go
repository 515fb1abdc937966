package message

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// SpaceClass distinguishes scalar, simple and null dataspaces.
type SpaceClass uint8

const (
	SpaceScalar SpaceClass = 0
	SpaceSimple SpaceClass = 1
	SpaceNull   SpaceClass = 2
)

// Dataspace describes the extent of a dataset or attribute (type 0x0001).
type Dataspace struct {
	Version uint8
	Class   SpaceClass
	Dims    []uint64
	MaxDims []uint64
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NewSimple returns a version 2 dataspace with the given extents. A nil
// or empty dims produces a scalar space.
func NewSimple(dims []uint64) *Dataspace {
	if len(dims) == 0 {
		return &Dataspace{Version: 2, Class: SpaceScalar}
	}
	return &Dataspace{Version: 2, Class: SpaceSimple, Dims: append([]uint64(nil), dims...)}
}

// NumElements returns the number of elements the space selects in total.
func (m *Dataspace) NumElements() uint64 {
	switch m.Class {
	case SpaceScalar:
		return 1
	case SpaceSimple:
		n := uint64(1)
		for _, d := range m.Dims {
			n *= d
		}
		return n
	}
	return 0
}

func decodeDataspace(d *binary.Decoder) (*Dataspace, error) {
	m := &Dataspace{Version: d.Uint8()}
	rank := int(d.Uint8())
	flags := d.Uint8()

	switch m.Version {
	case 1:
		d.Skip(5)
		m.Class = SpaceSimple
		if rank == 0 {
			m.Class = SpaceScalar
		}
	case 2:
		m.Class = SpaceClass(d.Uint8())
	default:
		return nil, fmt.Errorf("%w: dataspace version %d", ErrUnsupported, m.Version)
	}
	if m.Class != SpaceSimple {
		return m, nil
	}

	m.Dims = make([]uint64, rank)
	for i := range m.Dims {
		m.Dims[i] = d.Length()
	}
	if flags&0x01 != 0 {
		m.MaxDims = make([]uint64, rank)
		for i := range m.MaxDims {
			m.MaxDims[i] = d.Length()
		}
	}
	return m, nil
}

// Encode writes the space as version 2, without maximum dimensions.
func (m *Dataspace) Encode(e *binary.Encoder) {
	e.PutUint8(2)
	e.PutUint8(uint8(len(m.Dims)))
	e.PutUint8(0)
	e.PutUint8(uint8(m.Class))
	if m.Class != SpaceSimple {
		return
	}
	for _, n := range m.Dims {
		e.PutLength(n)
	}
}
