package message

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Attribute is an attribute message (type 0x000C).
type Attribute struct {
	Name  string
	Dtype *Datatype
	Space *Dataspace
	Data  []byte
}

func (m *Attribute) Type() Type { return TypeAttribute }

func decodeAttribute(d *binary.Decoder) (*Attribute, error) {
	base := d.Pos()
	version := d.Uint8()
	if version < 1 || version > 3 {
		return nil, fmt.Errorf("%w: attribute version %d", ErrUnsupported, version)
	}
	flags := d.Uint8()
	if flags&0x03 != 0 {
		return nil, fmt.Errorf("%w: shared attribute datatype or dataspace", ErrUnsupported)
	}
	nameSize := int(d.Uint16())
	dtSize := int(d.Uint16())
	dsSize := int(d.Uint16())
	if version == 3 {
		d.Uint8() // name encoding
	}

	// Version 1 pads each of the three fields to eight bytes.
	pad := func() {
		if version == 1 {
			d.Align(base, 8)
		}
	}

	name := d.Bytes(nameSize)
	pad()
	dtRaw := d.Bytes(dtSize)
	pad()
	dsRaw := d.Bytes(dsSize)
	pad()
	if err := d.Err(); err != nil {
		return nil, err
	}

	m := &Attribute{Name: cstring(name)}
	var err error
	if m.Dtype, err = decodeDatatype(binary.NewDecoder(dtRaw, d.Sizes())); err != nil {
		return nil, err
	}
	sd := binary.NewDecoder(dsRaw, d.Sizes())
	if m.Space, err = decodeDataspace(sd); err != nil {
		return nil, err
	}
	if err := sd.Err(); err != nil {
		return nil, fmt.Errorf("attribute %q dataspace: %w", m.Name, err)
	}

	n := int(m.Space.NumElements()) * int(m.Dtype.Size)
	if n > d.Remaining() {
		n = d.Remaining()
	}
	m.Data = append([]byte(nil), d.Bytes(n)...)
	return m, nil
}

// Encode writes a version 3 attribute message.
func (m *Attribute) Encode(e *binary.Encoder) {
	dt := Encode(m.Dtype, e.Sizes())
	ds := Encode(m.Space, e.Sizes())

	e.PutUint8(3)
	e.PutUint8(0)
	e.PutUint16(uint16(len(m.Name) + 1))
	e.PutUint16(uint16(len(dt)))
	e.PutUint16(uint16(len(ds)))
	e.PutUint8(CharsetASCII)
	e.PutCString(m.Name)
	e.PutBytes(dt)
	e.PutBytes(ds)
	e.PutBytes(m.Data)
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
