// Package binary provides the little-endian codecs used to read and write
// HDF5 metadata structures with variable-width offset and length fields.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is reported when a structure runs past the end of its buffer.
var ErrShortBuffer = errors.New("binary: short buffer")

// ErrInvalidSize is returned when an invalid offset or length size is specified.
var ErrInvalidSize = errors.New("binary: offset/length size must be 2, 4 or 8")

// Sizes holds the widths of file addresses and lengths, as declared by the
// superblock.
type Sizes struct {
	Offset int
	Length int
}

// DefaultSizes are the widths the writer uses and the widths assumed before a
// superblock has been decoded.
var DefaultSizes = Sizes{Offset: 8, Length: 8}

// Validate reports whether both widths are supported.
func (s Sizes) Validate() error {
	for _, n := range []int{s.Offset, s.Length} {
		if n != 2 && n != 4 && n != 8 {
			return fmt.Errorf("%w: %d", ErrInvalidSize, n)
		}
	}
	return nil
}

// Undefined returns the all-ones sentinel address for the offset width.
func (s Sizes) Undefined() uint64 {
	if s.Offset >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(uint(s.Offset)*8) - 1
}

// IsUndefined reports whether addr is the undefined address.
func (s Sizes) IsUndefined(addr uint64) bool {
	return addr == s.Undefined()
}

// Decoder reads fields sequentially from an in-memory image. The first
// failure is sticky: later reads return zero values and Err reports it.
type Decoder struct {
	buf   []byte
	pos   int
	sizes Sizes
	err   error
}

// NewDecoder returns a decoder over buf positioned at offset 0.
func NewDecoder(buf []byte, sizes Sizes) *Decoder {
	return &Decoder{buf: buf, sizes: sizes}
}

// At returns an independent decoder over the same buffer positioned at off.
func (d *Decoder) At(off uint64) *Decoder {
	nd := &Decoder{buf: d.buf, sizes: d.sizes}
	if off > uint64(len(d.buf)) {
		nd.err = fmt.Errorf("%w: seek to %d beyond %d", ErrShortBuffer, off, len(d.buf))
		return nd
	}
	nd.pos = int(off)
	return nd
}

// WithSizes returns a copy of d with different offset/length widths.
func (d *Decoder) WithSizes(s Sizes) *Decoder {
	nd := *d
	nd.sizes = s
	return &nd
}

func (d *Decoder) Sizes() Sizes { return d.sizes }
func (d *Decoder) Pos() int { return d.pos }
func (d *Decoder) Err() error { return d.err }
func (d *Decoder) Len() int { return len(d.buf) }

// Remaining is the number of bytes left after the current position.
func (d *Decoder) Remaining() int {
	if d.err != nil {
		return 0
	}
	return len(d.buf) - d.pos
}

// Fail records err unless an earlier error is already held.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > len(d.buf) {
		d.err = fmt.Errorf("%w: need %d bytes at %d, have %d", ErrShortBuffer, n, d.pos, len(d.buf)-d.pos)
		return nil
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b
}

// Bytes returns the next n bytes. The slice aliases the underlying buffer.
func (d *Decoder) Bytes(n int) []byte {
	return d.take(n)
}

// Skip advances past n bytes.
func (d *Decoder) Skip(n int) {
	d.take(n)
}

// Align advances the position to the next multiple of n, measured from base.
func (d *Decoder) Align(base, n int) {
	if n <= 1 || d.err != nil {
		return
	}
	if r := (d.pos - base) % n; r != 0 {
		d.Skip(n - r)
	}
}

func (d *Decoder) Uint8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) Uint16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *Decoder) Uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) Uint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// UintN reads an unsigned little-endian integer of n bytes (n <= 8).
func (d *Decoder) UintN(n int) uint64 {
	b := d.take(n)
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Offset reads a file address using the configured offset width.
func (d *Decoder) Offset() uint64 { return d.UintN(d.sizes.Offset) }

// Length reads a length using the configured length width.
func (d *Decoder) Length() uint64 { return d.UintN(d.sizes.Length) }

// CString reads a null-terminated string and consumes the terminator.
func (d *Decoder) CString() string {
	if d.err != nil {
		return ""
	}
	for i := d.pos; i < len(d.buf); i++ {
		if d.buf[i] == 0 {
			s := string(d.buf[d.pos:i])
			d.pos = i + 1
			return s
		}
	}
	d.err = fmt.Errorf("%w: unterminated string at %d", ErrShortBuffer, d.pos)
	return ""
}

// Signature reads len(sig) bytes and fails unless they equal sig.
func (d *Decoder) Signature(sig string) bool {
	b := d.take(len(sig))
	if b == nil {
		return false
	}
	if string(b) != sig {
		d.Fail(fmt.Errorf("binary: bad signature %q, want %q", b, sig))
		return false
	}
	return true
}
