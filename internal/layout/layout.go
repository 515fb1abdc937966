// Package layout loads and places the raw data of datasets.
//
// Compact data lives inside the object header; contiguous data is a
// single block elsewhere in the file. Chunked and virtual layouts are not
// produced by the writer and are rejected on load.
package layout

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/message"
)

// DefaultCompactThreshold is the payload size below which the writer keeps
// data in the object header.
const DefaultCompactThreshold = 256

// maxCompact is the largest payload a version 3 compact layout can hold.
const maxCompact = 0xFFFF

// Load returns a copy of a dataset's raw bytes. size is the expected
// payload length (elements times element size); an unallocated contiguous
// block reads as zeros.
func Load(image []byte, sizes binary.Sizes, l *message.DataLayout, size uint64) ([]byte, error) {
	out := make([]byte, size)
	switch l.Class {
	case message.LayoutCompact:
		copy(out, l.Data)
		return out, nil
	case message.LayoutContiguous:
		if sizes.IsUndefined(l.Address) || size == 0 {
			return out, nil
		}
		if l.Size != 0 && l.Size < size {
			size = l.Size
		}
		end := l.Address + size
		if end > uint64(len(image)) || end < l.Address {
			return nil, fmt.Errorf("layout: contiguous block [%d, %d) beyond end of file %d", l.Address, end, len(image))
		}
		copy(out, image[l.Address:end])
		return out, nil
	}
	return nil, fmt.Errorf("%w: layout class %d", message.ErrUnsupported, l.Class)
}

// Choose picks the storage class for a payload of n bytes.
func Choose(n int, threshold int) message.LayoutClass {
	if threshold > maxCompact {
		threshold = maxCompact
	}
	if n < threshold {
		return message.LayoutCompact
	}
	return message.LayoutContiguous
}

// Placer stores a contiguous payload and returns its address.
type Placer interface {
	Place(b []byte, align uint64, tag string) uint64
}

// Plan builds the layout message for data, placing contiguous payloads
// through p.
func Plan(data []byte, threshold int, p Placer, tag string) *message.DataLayout {
	if Choose(len(data), threshold) == message.LayoutCompact {
		return &message.DataLayout{Class: message.LayoutCompact, Data: data}
	}
	addr := p.Place(data, 8, tag)
	return &message.DataLayout{Class: message.LayoutContiguous, Address: addr, Size: uint64(len(data))}
}
