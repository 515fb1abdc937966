package message

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Allocation and fill write times.
const (
	AllocEarly       = 1
	AllocLate        = 2
	AllocIncremental = 3
	FillWriteIfSet   = 2
)

// FillValue is the fill value message (type 0x0005).
type FillValue struct {
	Version   uint8
	AllocTime uint8
	WriteTime uint8
	Defined   bool
	Value     []byte
}

func (m *FillValue) Type() Type { return TypeFillValue }

func decodeFillValue(d *binary.Decoder) (*FillValue, error) {
	m := &FillValue{Version: d.Uint8()}
	switch m.Version {
	case 1, 2:
		m.AllocTime = d.Uint8()
		m.WriteTime = d.Uint8()
		m.Defined = d.Uint8() != 0
		if m.Version == 1 || m.Defined {
			if n := d.Uint32(); n > 0 {
				m.Value = append([]byte(nil), d.Bytes(int(n))...)
			}
		}
	case 3:
		flags := d.Uint8()
		m.AllocTime = flags & 0x03
		m.WriteTime = flags >> 2 & 0x03
		m.Defined = flags&0x20 != 0
		if m.Defined {
			n := d.Uint32()
			m.Value = append([]byte(nil), d.Bytes(int(n))...)
		}
	default:
		return nil, fmt.Errorf("%w: fill value version %d", ErrUnsupported, m.Version)
	}
	return m, nil
}

// Encode writes a version 3 message.
func (m *FillValue) Encode(e *binary.Encoder) {
	flags := m.AllocTime&0x03 | (m.WriteTime&0x03)<<2
	if m.Defined {
		flags |= 0x20
	}
	e.PutUint8(3)
	e.PutUint8(flags)
	if m.Defined {
		e.PutUint32(uint32(len(m.Value)))
		e.PutBytes(m.Value)
	}
}
