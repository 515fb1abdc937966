// Package object decodes and encodes HDF5 object headers.
//
// An object header is the list of messages describing a group or dataset.
// Version 1 and version 2 headers are read, following continuation blocks.
// The writer always produces version 2 headers in a single chunk.
package object

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/message"
)

var (
	ErrInvalidHeader = errors.New("object: invalid header")
	ErrChecksum      = errors.New("object: header checksum mismatch")
)

// maxContinuations bounds the number of chunks followed for one header, so
// a corrupt file cannot loop forever.
const maxContinuations = 1024

// Header is a decoded object header.
type Header struct {
	Version  uint8
	Address  uint64
	Messages []message.Message
}

// Read decodes the object header at addr.
func Read(image []byte, sizes binary.Sizes, addr uint64) (*Header, error) {
	d := binary.NewDecoder(image, sizes).At(addr)
	if d.Remaining() < 4 {
		return nil, fmt.Errorf("%w: address %d beyond end of file", ErrInvalidHeader, addr)
	}

	var (
		h   *Header
		err error
	)
	if string(image[addr:addr+4]) == "OHDR" {
		h, err = readV2(d, addr)
	} else if image[addr] == 1 {
		h, err = readV1(d, addr)
	} else {
		return nil, fmt.Errorf("%w: unknown format at %d", ErrInvalidHeader, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("object header at %d: %w", addr, err)
	}
	return h, nil
}

// First returns the first message of the given type, or nil.
func (h *Header) First(typ message.Type) message.Message {
	for _, m := range h.Messages {
		if m.Type() == typ {
			return m
		}
	}
	return nil
}

// All returns every message of the given type in header order.
func (h *Header) All(typ message.Type) []message.Message {
	var out []message.Message
	for _, m := range h.Messages {
		if m.Type() == typ {
			out = append(out, m)
		}
	}
	return out
}

// IsDataset reports whether the header describes a dataset.
func (h *Header) IsDataset() bool {
	return h.First(message.TypeDataLayout) != nil
}

// IsGroup reports whether the header describes a group of either style.
func (h *Header) IsGroup() bool {
	return h.First(message.TypeLinkInfo) != nil ||
		h.First(message.TypeSymbolTable) != nil ||
		(h.Version == 2 && !h.IsDataset())
}

// chunk is a span of the file holding messages.
type chunk struct {
	start, end int
}

// decodeMessage turns one raw message into a typed value, skipping NIL
// padding and shared messages.
func decodeMessage(typ message.Type, flags uint8, data []byte, sizes binary.Sizes) (message.Message, error) {
	if typ == message.TypeNIL {
		return nil, nil
	}
	if flags&0x02 != 0 {
		return &message.Unknown{Kind: typ, Data: data}, nil
	}
	return message.Decode(typ, data, sizes)
}
