package binary

import "encoding/binary"

// Encoder appends little-endian fields to a growing buffer.
type Encoder struct {
	buf   []byte
	sizes Sizes
}

// NewEncoder returns an empty encoder using the given offset/length widths.
func NewEncoder(sizes Sizes) *Encoder {
	return &Encoder{sizes: sizes}
}

func (e *Encoder) Sizes() Sizes { return e.sizes }
func (e *Encoder) Len() int { return len(e.buf) }
func (e *Encoder) Bytes() []byte { return e.buf }
func (e *Encoder) Reset() { e.buf = e.buf[:0] }
func (e *Encoder) PutUint8(v uint8) { e.buf = append(e.buf, v) }

func (e *Encoder) PutUint16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) PutUint64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// PutUintN appends the low n bytes of v.
func (e *Encoder) PutUintN(v uint64, n int) {
	for i := 0; i < n; i++ {
		e.buf = append(e.buf, byte(v>>(8*uint(i))))
	}
}

// PutOffset appends a file address using the configured offset width.
func (e *Encoder) PutOffset(addr uint64) { e.PutUintN(addr, e.sizes.Offset) }

// PutUndefined appends the undefined address sentinel.
func (e *Encoder) PutUndefined() { e.PutOffset(e.sizes.Undefined()) }

// PutLength appends a length using the configured length width.
func (e *Encoder) PutLength(n uint64) { e.PutUintN(n, e.sizes.Length) }

func (e *Encoder) PutBytes(b []byte) { e.buf = append(e.buf, b...) }

// PutCString appends s followed by a null terminator.
func (e *Encoder) PutCString(s string) {
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
}

// PutZeros appends n zero bytes.
func (e *Encoder) PutZeros(n int) {
	for i := 0; i < n; i++ {
		e.buf = append(e.buf, 0)
	}
}

// Pad appends zero bytes until the length is a multiple of n, measured from base.
func (e *Encoder) Pad(base, n int) {
	if n <= 1 {
		return
	}
	if r := (len(e.buf) - base) % n; r != 0 {
		e.PutZeros(n - r)
	}
}

// PatchUint16 overwrites two bytes at off, used for back-filled size fields.
func (e *Encoder) PatchUint16(off int, v uint16) {
	binary.LittleEndian.PutUint16(e.buf[off:], v)
}

// PatchUintN overwrites n bytes at off.
func (e *Encoder) PatchUintN(off int, v uint64, n int) {
	for i := 0; i < n; i++ {
		e.buf[off+i] = byte(v >> (8 * uint(i)))
	}
}

// PutChecksum appends the lookup3 checksum of every byte from start onwards.
func (e *Encoder) PutChecksum(start int) {
	e.PutUint32(Lookup3(e.buf[start:]))
}
