package message

import (
	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Class is a datatype class.
type Class uint8

const (
	ClassFixed     Class = 0
	ClassFloat     Class = 1
	ClassTime      Class = 2
	ClassString    Class = 3
	ClassBitfield  Class = 4
	ClassOpaque    Class = 5
	ClassCompound  Class = 6
	ClassReference Class = 7
	ClassEnum      Class = 8
	ClassVarLen    Class = 9
	ClassArray     Class = 10
)

// String padding modes.
const (
	PadNullTerm  = 0
	PadNullPad   = 1
	PadSpacePad  = 2
	CharsetASCII = 0
	CharsetUTF8  = 1
)

// Datatype is a datatype message (type 0x0003). Properties holds the raw
// class specific property bytes; only fixed, float and string types are
// interpreted.
type Datatype struct {
	Class      Class
	Version    uint8
	Bits       uint32
	Size       uint32
	Properties []byte
}

func (m *Datatype) Type() Type { return TypeDatatype }

// BigEndian reports the byte order bit of numeric classes.
func (m *Datatype) BigEndian() bool {
	return (m.Class == ClassFixed || m.Class == ClassFloat) && m.Bits&0x01 != 0
}

// Signed reports whether a fixed-point type is two's complement.
func (m *Datatype) Signed() bool {
	return m.Class == ClassFixed && m.Bits&0x08 != 0
}

// Padding returns the string padding mode.
func (m *Datatype) Padding() int { return int(m.Bits & 0x0F) }

// Equal compares class, size and class bits.
func (m *Datatype) Equal(o *Datatype) bool {
	return o != nil && m.Class == o.Class && m.Size == o.Size && m.Bits == o.Bits
}

// NewFixed returns a little-endian integer type of size bytes.
func NewFixed(size int, signed bool) *Datatype {
	var bits uint32
	if signed {
		bits |= 0x08
	}
	props := binary.NewEncoder(binary.DefaultSizes)
	props.PutUint16(0)
	props.PutUint16(uint16(size * 8))
	return &Datatype{Class: ClassFixed, Version: 1, Bits: bits, Size: uint32(size), Properties: props.Bytes()}
}

// NewFloat returns a little-endian IEEE 754 type of 4 or 8 bytes.
func NewFloat(size int) *Datatype {
	var (
		sign  uint32
		props []byte
	)
	if size == 4 {
		sign = 31
		props = []byte{0, 0, 32, 0, 23, 8, 0, 23, 127, 0, 0, 0}
	} else {
		sign = 63
		props = []byte{0, 0, 64, 0, 52, 11, 0, 52, 0xff, 0x03, 0, 0}
	}
	// mantissa normalization "implied msb" lives in bits 4-5
	bits := uint32(2)<<4 | sign<<8
	return &Datatype{Class: ClassFloat, Version: 1, Bits: bits, Size: uint32(size), Properties: props}
}

// NewString returns a fixed-length ASCII string type.
func NewString(size int, padding int) *Datatype {
	return &Datatype{Class: ClassString, Version: 1, Bits: uint32(padding) | CharsetASCII<<4, Size: uint32(size)}
}

func decodeDatatype(d *binary.Decoder) (*Datatype, error) {
	head := d.Uint8()
	m := &Datatype{
		Class:   Class(head & 0x0F),
		Version: head >> 4,
		Bits:    uint32(d.Uint8()) | uint32(d.Uint8())<<8 | uint32(d.Uint8())<<16,
		Size:    d.Uint32(),
	}
	if n := d.Remaining(); n > 0 {
		m.Properties = append([]byte(nil), d.Bytes(n)...)
	}
	return m, nil
}

func (m *Datatype) Encode(e *binary.Encoder) {
	e.PutUint8(uint8(m.Class) | m.Version<<4)
	e.PutUint8(uint8(m.Bits))
	e.PutUint8(uint8(m.Bits >> 8))
	e.PutUint8(uint8(m.Bits >> 16))
	e.PutUint32(m.Size)
	e.PutBytes(m.Properties)
}
