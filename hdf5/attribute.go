package hdf5

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/internal/message"
)

// Attribute is a small named value attached to a group or dataset.
type Attribute struct {
	owner *object
	name  string
	mt    *message.Datatype
	dtype Datatype
	dims  []uint64
	data  []byte
}

func (a *Attribute) Name() string     { return a.name }
func (a *Attribute) Type() Datatype   { return a.dtype }
func (a *Attribute) Dims() []uint64   { return append([]uint64(nil), a.dims...) }
func (a *Attribute) NumElements() int { return int(elements(a.dims)) }

// Bytes returns a copy of the raw little-endian value.
func (a *Attribute) Bytes() []byte { return append([]byte(nil), a.data...) }

// textual reports whether the value can be read as characters: a string
// type or an array of single bytes.
func (a *Attribute) textual() bool {
	return a.dtype.Class == ClassString || (a.dtype.Class == ClassInteger && a.dtype.Size == 1)
}

// String decodes a character attribute up to its first NUL.
func (a *Attribute) String() (string, error) {
	if !a.textual() {
		return "", errors.Wrapf(ErrType, "attribute %q is %s", a.name, a.dtype)
	}
	return cstring(a.data, a.mt.Padding()), nil
}

// Int32 returns the first element of an integer attribute.
func (a *Attribute) Int32() (int32, error) {
	if a.dtype.Class != ClassInteger || len(a.data) < a.dtype.Size {
		return 0, errors.Wrapf(ErrType, "attribute %q is %s", a.name, a.dtype)
	}
	switch a.dtype.Size {
	case 1:
		if a.dtype.Signed {
			return int32(int8(a.data[0])), nil
		}
		return int32(a.data[0]), nil
	case 2:
		v := binary.LittleEndian.Uint16(a.data)
		if a.dtype.Signed {
			return int32(int16(v)), nil
		}
		return int32(v), nil
	case 4:
		return int32(binary.LittleEndian.Uint32(a.data)), nil
	}
	return int32(binary.LittleEndian.Uint64(a.data)), nil
}

// SetString stores s null-terminated; the rest of the value is zeroed.
func (a *Attribute) SetString(s string) error {
	if !a.textual() {
		return errors.Wrapf(ErrType, "attribute %q is %s", a.name, a.dtype)
	}
	if len(s) >= len(a.data) {
		return errors.Wrapf(ErrType, "%d bytes do not fit attribute %q of %d", len(s), a.name, len(a.data))
	}
	buf := make([]byte, len(a.data))
	copy(buf, s)
	return a.SetBytes(buf)
}

// SetInt32 stores v as the first element of a 4-byte integer attribute.
func (a *Attribute) SetInt32(v int32) error {
	if a.dtype.Class != ClassInteger || a.dtype.Size != 4 || len(a.data) < 4 {
		return errors.Wrapf(ErrType, "attribute %q is %s", a.name, a.dtype)
	}
	buf := a.Bytes()
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return a.SetBytes(buf)
}

// SetBytes replaces the raw value; b must have the attribute's size.
func (a *Attribute) SetBytes(b []byte) error {
	if err := a.owner.file.writable(); err != nil {
		return err
	}
	if len(b) != len(a.data) {
		return errors.Wrapf(ErrType, "attribute %q holds %d bytes, got %d", a.name, len(a.data), len(b))
	}
	copy(a.data, b)
	a.owner.file.touch()
	return nil
}

func (a *Attribute) message() *message.Attribute {
	return &message.Attribute{
		Name:  a.name,
		Dtype: a.mt,
		Space: message.NewSimple(a.dims),
		Data:  a.data,
	}
}
