package hdf5

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/internal/message"
)

// Class is the storage class of a Datatype.
type Class int

const (
	ClassOther Class = iota
	ClassInteger
	ClassFloat
	ClassString
)

// Datatype describes one element of a dataset or attribute. All numeric
// data is held little-endian in memory.
type Datatype struct {
	Class  Class
	Size   int
	Signed bool
}

// Integer returns an integer type of size bytes.
func Integer(size int, signed bool) Datatype {
	return Datatype{Class: ClassInteger, Size: size, Signed: signed}
}

// Float returns an IEEE 754 type of 4 or 8 bytes.
func Float(size int) Datatype {
	return Datatype{Class: ClassFloat, Size: size, Signed: true}
}

// String returns a null-terminated fixed-length string type of size bytes,
// terminator included.
func String(size int) Datatype {
	return Datatype{Class: ClassString, Size: size}
}

func (t Datatype) String() string {
	switch t.Class {
	case ClassInteger:
		if t.Signed {
			return fmt.Sprintf("int%d", t.Size*8)
		}
		return fmt.Sprintf("uint%d", t.Size*8)
	case ClassFloat:
		return fmt.Sprintf("float%d", t.Size*8)
	case ClassString:
		return fmt.Sprintf("string[%d]", t.Size)
	}
	return fmt.Sprintf("opaque[%d]", t.Size)
}

func (t Datatype) message() (*message.Datatype, error) {
	if t.Size <= 0 {
		return nil, errors.Wrapf(ErrType, "element size %d", t.Size)
	}
	switch t.Class {
	case ClassInteger:
		switch t.Size {
		case 1, 2, 4, 8:
			return message.NewFixed(t.Size, t.Signed), nil
		}
	case ClassFloat:
		if t.Size == 4 || t.Size == 8 {
			return message.NewFloat(t.Size), nil
		}
	case ClassString:
		return message.NewString(t.Size, message.PadNullTerm), nil
	}
	return nil, errors.Wrapf(ErrType, "cannot create %s", t)
}

func datatypeOf(m *message.Datatype) Datatype {
	t := Datatype{Size: int(m.Size)}
	switch m.Class {
	case message.ClassFixed:
		t.Class = ClassInteger
		t.Signed = m.Signed()
	case message.ClassFloat:
		t.Class = ClassFloat
		t.Signed = true
	case message.ClassString:
		t.Class = ClassString
	}
	return t
}

// littleEndian converts big-endian numeric data in place and returns the
// datatype message describing the result.
func littleEndian(m *message.Datatype, data []byte) *message.Datatype {
	if !m.BigEndian() || m.Size < 2 {
		return m
	}
	n := int(m.Size)
	for off := 0; off+n <= len(data); off += n {
		e := data[off : off+n]
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			e[i], e[j] = e[j], e[i]
		}
	}
	le := *m
	le.Bits &^= 0x01
	return &le
}

// cstring cuts b at the first NUL and drops space padding.
func cstring(b []byte, padding int) string {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	if padding == message.PadSpacePad {
		for len(b) > 0 && b[len(b)-1] == ' ' {
			b = b[:len(b)-1]
		}
	}
	return string(b)
}
