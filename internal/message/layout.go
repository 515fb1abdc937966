package message

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// LayoutClass is the raw data storage class.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
	LayoutVirtual    LayoutClass = 3
)

// DataLayout is the data layout message (type 0x0008). Chunked and
// virtual layouts decode their class only.
type DataLayout struct {
	Version uint8
	Class   LayoutClass

	// Compact
	Data []byte

	// Contiguous. Size is zero for v1/v2 messages, which do not record it.
	Address uint64
	Size    uint64
}

func (m *DataLayout) Type() Type { return TypeDataLayout }

func decodeLayout(d *binary.Decoder) (*DataLayout, error) {
	m := &DataLayout{Version: d.Uint8()}
	switch m.Version {
	case 1, 2:
		rank := int(d.Uint8())
		m.Class = LayoutClass(d.Uint8())
		d.Skip(5)
		if m.Class != LayoutCompact {
			m.Address = d.Offset()
		}
		d.Skip(4 * rank)
		if m.Class == LayoutCompact {
			n := d.Uint32()
			m.Data = append([]byte(nil), d.Bytes(int(n))...)
		}
	case 3, 4:
		m.Class = LayoutClass(d.Uint8())
		switch m.Class {
		case LayoutCompact:
			n := d.Uint16()
			m.Data = append([]byte(nil), d.Bytes(int(n))...)
		case LayoutContiguous:
			m.Address = d.Offset()
			m.Size = d.Length()
		}
	default:
		return nil, fmt.Errorf("%w: layout version %d", ErrUnsupported, m.Version)
	}
	return m, nil
}

// Encode writes a version 3 compact or contiguous layout.
func (m *DataLayout) Encode(e *binary.Encoder) {
	e.PutUint8(3)
	e.PutUint8(uint8(m.Class))
	switch m.Class {
	case LayoutCompact:
		e.PutUint16(uint16(len(m.Data)))
		e.PutBytes(m.Data)
	case LayoutContiguous:
		e.PutOffset(m.Address)
		e.PutLength(m.Size)
	}
}
