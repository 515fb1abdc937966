// Package dtype maps ADF data type codes onto container datatypes.
package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

// Code is a two-character ADF data type code.
type Code string

const (
	MT Code = "MT"
	LK Code = "LK"
	B1 Code = "B1"
	C1 Code = "C1"
	I4 Code = "I4"
	I8 Code = "I8"
	U4 Code = "U4"
	U8 Code = "U8"
	R4 Code = "R4"
	R8 Code = "R8"
	X4 Code = "X4"
	X8 Code = "X8"
)

// CodeLength is the number of significant characters of a code.
const CodeLength = 2

var (
	// ErrUnsupported marks the complex codes, which are valid ADF but
	// cannot be stored.
	ErrUnsupported = errors.New("dtype: data type not supported")
	// ErrInvalid marks anything that is not an ADF code.
	ErrInvalid = errors.New("dtype: invalid data type")
)

var sizes = map[Code]int{
	MT: 0, LK: 0,
	B1: 1, C1: 1,
	I4: 4, U4: 4, R4: 4,
	I8: 8, U8: 8, R8: 8,
}

// Parse normalizes s to upper case and checks it names a storable code.
// Only the first two characters are significant.
func Parse(s string) (Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > CodeLength {
		s = s[:CodeLength]
	}
	c := Code(s)
	if c == X4 || c == X8 {
		return "", errors.Wrapf(ErrUnsupported, "%q", s)
	}
	if _, ok := sizes[c]; !ok {
		return "", errors.Wrapf(ErrInvalid, "%q", s)
	}
	return c, nil
}

// Size is the element size in bytes; zero for MT and LK.
func (c Code) Size() int { return sizes[c] }

// HasData reports whether nodes of this type carry a payload.
func (c Code) HasData() bool { return c.Size() > 0 }

// Datatype is the container type for elements of c.
func (c Code) Datatype() (hdf5.Datatype, bool) {
	switch c {
	case B1:
		return hdf5.Integer(1, false), true
	case C1:
		return hdf5.Integer(1, true), true
	case I4:
		return hdf5.Integer(4, true), true
	case I8:
		return hdf5.Integer(8, true), true
	case U4:
		return hdf5.Integer(4, false), true
	case U8:
		return hdf5.Integer(8, false), true
	case R4:
		return hdf5.Float(4), true
	case R8:
		return hdf5.Float(8), true
	}
	return hdf5.Datatype{}, false
}

// FromDatatype finds the code of a container type. String types of one
// byte read as C1.
func FromDatatype(t hdf5.Datatype) (Code, bool) {
	switch t.Class {
	case hdf5.ClassInteger:
		switch {
		case t.Size == 1 && t.Signed:
			return C1, true
		case t.Size == 1:
			return B1, true
		case t.Size == 4 && t.Signed:
			return I4, true
		case t.Size == 4:
			return U4, true
		case t.Size == 8 && t.Signed:
			return I8, true
		case t.Size == 8:
			return U8, true
		}
	case hdf5.ClassFloat:
		switch t.Size {
		case 4:
			return R4, true
		case 8:
			return R8, true
		}
	case hdf5.ClassString:
		if t.Size == 1 {
			return C1, true
		}
	}
	return "", false
}

// NativeFormat is the machine format this implementation writes.
func NativeFormat() string { return "IEEE_LITTLE_32" }

// Format renders element i of raw, a little-endian payload of type c.
func Format(c Code, raw []byte, i int) string {
	n := c.Size()
	if n == 0 || (i+1)*n > len(raw) {
		return ""
	}
	b := raw[i*n : (i+1)*n]
	switch c {
	case B1:
		return fmt.Sprint(b[0])
	case C1:
		return fmt.Sprint(int8(b[0]))
	case I4:
		return fmt.Sprint(int32(binary.LittleEndian.Uint32(b)))
	case U4:
		return fmt.Sprint(binary.LittleEndian.Uint32(b))
	case I8:
		return fmt.Sprint(int64(binary.LittleEndian.Uint64(b)))
	case U8:
		return fmt.Sprint(binary.LittleEndian.Uint64(b))
	case R4:
		return fmt.Sprint(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case R8:
		return fmt.Sprint(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	}
	return ""
}

// Values renders every element of raw.
func Values(c Code, raw []byte) []string {
	n := c.Size()
	if n == 0 {
		return nil
	}
	out := make([]string, len(raw)/n)
	for i := range out {
		out[i] = Format(c, raw, i)
	}
	return out
}
