// Package heap reads HDF5 local heaps, the name store of old-style
// (symbol table) groups.
package heap

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Local is a decoded local heap: a data segment of null-terminated names.
type Local struct {
	Address     uint64
	DataAddress uint64
	data        []byte
}

// ReadLocal decodes the local heap at addr.
func ReadLocal(image []byte, sizes binary.Sizes, addr uint64) (*Local, error) {
	d := binary.NewDecoder(image, sizes).At(addr)
	if !d.Signature("HEAP") {
		return nil, fmt.Errorf("local heap at %d: %w", addr, d.Err())
	}
	if v := d.Uint8(); v != 0 {
		return nil, fmt.Errorf("local heap at %d: version %d", addr, v)
	}
	d.Skip(3)
	size := d.Length()
	d.Length() // free list head
	dataAddr := d.Offset()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("local heap at %d: %w", addr, err)
	}

	seg := d.At(dataAddr)
	data := seg.Bytes(int(size))
	if err := seg.Err(); err != nil {
		return nil, fmt.Errorf("local heap data at %d: %w", dataAddr, err)
	}
	return &Local{Address: addr, DataAddress: dataAddr, data: data}, nil
}

// String returns the null-terminated string starting at off.
func (h *Local) String(off uint64) (string, error) {
	if off >= uint64(len(h.data)) {
		return "", fmt.Errorf("local heap offset %d beyond segment of %d bytes", off, len(h.data))
	}
	end := off
	for end < uint64(len(h.data)) && h.data[end] != 0 {
		end++
	}
	return string(h.data[off:end]), nil
}
