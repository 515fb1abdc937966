// Package message decodes and encodes HDF5 object header messages.
//
// Only the messages needed to describe groups, links, attributes and
// compact/contiguous datasets are understood. Everything else is kept as
// an opaque Unknown so headers can still be walked.
package message

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Type is an object header message type.
type Type uint16

const (
	TypeNIL          Type = 0x0000
	TypeDataspace    Type = 0x0001
	TypeLinkInfo     Type = 0x0002
	TypeDatatype     Type = 0x0003
	TypeFillValueOld Type = 0x0004
	TypeFillValue    Type = 0x0005
	TypeLink         Type = 0x0006
	TypeDataLayout   Type = 0x0008
	TypeGroupInfo    Type = 0x000A
	TypeFilterPipe   Type = 0x000B
	TypeAttribute    Type = 0x000C
	TypeModTime      Type = 0x000E
	TypeContinuation Type = 0x0010
	TypeSymbolTable  Type = 0x0011
	TypeAttrInfo     Type = 0x0015
	TypeRefCount     Type = 0x0016
)

// ErrUnsupported marks structures that are valid HDF5 but outside what this
// package decodes (chunked layouts, dense storage, exotic versions).
var ErrUnsupported = errors.New("message: unsupported")

// Message is implemented by every decoded header message.
type Message interface {
	Type() Type
}

// Encoder is implemented by messages the writer can emit.
type Encoder interface {
	Message
	Encode(e *binary.Encoder)
}

// Decode parses the body of a message of the given type.
func Decode(typ Type, data []byte, sizes binary.Sizes) (Message, error) {
	d := binary.NewDecoder(data, sizes)
	var (
		m   Message
		err error
	)
	switch typ {
	case TypeDataspace:
		m, err = decodeDataspace(d)
	case TypeDatatype:
		m, err = decodeDatatype(d)
	case TypeFillValue:
		m, err = decodeFillValue(d)
	case TypeDataLayout:
		m, err = decodeLayout(d)
	case TypeLink:
		m, err = decodeLink(d)
	case TypeLinkInfo:
		m, err = decodeLinkInfo(d)
	case TypeGroupInfo:
		m = &GroupInfo{}
	case TypeAttribute:
		m, err = decodeAttribute(d)
	case TypeSymbolTable:
		m = &SymbolTable{BTreeAddress: d.Offset(), HeapAddress: d.Offset()}
	case TypeContinuation:
		m = &Continuation{Offset: d.Offset(), Length: d.Length()}
	default:
		return &Unknown{Kind: typ, Data: data}, nil
	}
	if err == nil {
		err = d.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("message 0x%04x: %w", uint16(typ), err)
	}
	return m, nil
}

// Encode serializes m into a standalone byte slice.
func Encode(m Encoder, sizes binary.Sizes) []byte {
	e := binary.NewEncoder(sizes)
	m.Encode(e)
	return e.Bytes()
}

// Unknown carries a message this package does not interpret.
type Unknown struct {
	Kind Type
	Data []byte
}

func (m *Unknown) Type() Type { return m.Kind }

// Continuation points to the next chunk of an object header.
type Continuation struct {
	Offset uint64
	Length uint64
}

func (m *Continuation) Type() Type { return TypeContinuation }

func (m *Continuation) Encode(e *binary.Encoder) {
	e.PutOffset(m.Offset)
	e.PutLength(m.Length)
}

// SymbolTable locates the B-tree and local heap of an old-style group.
type SymbolTable struct {
	BTreeAddress uint64
	HeapAddress  uint64
}

func (m *SymbolTable) Type() Type { return TypeSymbolTable }

func (m *SymbolTable) Encode(e *binary.Encoder) {
	e.PutOffset(m.BTreeAddress)
	e.PutOffset(m.HeapAddress)
}
