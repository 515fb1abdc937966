package object

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/message"
)

/*
Version 2 header:

	0  "OHDR", version (2), flags
	   bits 0-1  width of the chunk #0 size field (1 << n bytes)
	   bit  2    attribute creation order tracked (2 byte order per message)
	   bit  4    attribute phase change values present (4 bytes)
	   bit  5    access/modification/change/birth times present (16 bytes)
	   chunk #0 size, messages, checksum

Each message: type (1), size (2), flags (1), [creation order (2)], body.
Continuation chunks are "OCHK", messages, checksum.
*/

// Flag bits of a version 2 header.
const (
	flagOrderTracked = 0x04
	flagPhaseChange  = 0x10
	flagTimes        = 0x20
)

func readV2(d *binary.Decoder, addr uint64) (*Header, error) {
	d.Skip(4)
	if v := d.Uint8(); v != 2 {
		return nil, fmt.Errorf("%w: OHDR version %d", ErrInvalidHeader, v)
	}
	flags := d.Uint8()
	if flags&flagTimes != 0 {
		d.Skip(16)
	}
	if flags&flagPhaseChange != 0 {
		d.Skip(4)
	}
	size := int(d.UintN(1 << (flags & 0x03)))
	if err := d.Err(); err != nil {
		return nil, err
	}

	start := d.Pos()
	if err := verify(d, int(addr), start+size); err != nil {
		return nil, err
	}

	h := &Header{Version: 2, Address: addr}
	tracked := flags&flagOrderTracked != 0
	pending := []chunk{{start, start + size}}
	for n := 0; len(pending) > 0; n++ {
		if n > maxContinuations {
			return nil, fmt.Errorf("%w: too many continuation blocks", ErrInvalidHeader)
		}
		c := pending[0]
		pending = pending[1:]

		cd := d.At(uint64(c.start))
		for cd.Pos()+4 <= c.end {
			typ := message.Type(cd.Uint8())
			mlen := int(cd.Uint16())
			mflags := cd.Uint8()
			if tracked {
				cd.Skip(2)
			}
			body := cd.Bytes(mlen)
			if err := cd.Err(); err != nil {
				return nil, err
			}

			m, err := decodeMessage(typ, mflags, body, d.Sizes())
			if err != nil {
				return nil, err
			}
			if m == nil {
				continue
			}
			if cont, ok := m.(*message.Continuation); ok {
				next, err := openContinuation(d, cont)
				if err != nil {
					return nil, err
				}
				pending = append(pending, next)
				continue
			}
			h.Messages = append(h.Messages, m)
		}
	}
	return h, nil
}

// openContinuation validates an OCHK block and returns its message span.
func openContinuation(d *binary.Decoder, cont *message.Continuation) (chunk, error) {
	start, end := int(cont.Offset), int(cont.Offset+cont.Length)
	cd := d.At(cont.Offset)
	if !cd.Signature("OCHK") {
		return chunk{}, fmt.Errorf("%w: continuation at %d: %v", ErrInvalidHeader, start, cd.Err())
	}
	if err := verify(d, start, end-4); err != nil {
		return chunk{}, err
	}
	return chunk{start + 4, end - 4}, nil
}

// verify checks the lookup3 checksum stored at end over [start, end).
func verify(d *binary.Decoder, start, end int) error {
	cd := d.At(uint64(end))
	stored := cd.Uint32()
	if err := cd.Err(); err != nil {
		return err
	}
	if start < 0 || start > end {
		return ErrInvalidHeader
	}
	body := d.At(uint64(start)).Bytes(end - start)
	if !binary.VerifyLookup3(body, stored) {
		return fmt.Errorf("%w at %d", ErrChecksum, start)
	}
	return nil
}

// Encode appends a version 2 header holding msgs to e. Creation order of
// links is tracked through link messages, not the header, so message
// creation order fields are never written. minChunk pads chunk #0 with a
// NIL message when the messages are shorter.
func Encode(e *binary.Encoder, msgs []message.Encoder, minChunk int) {
	body := binary.NewEncoder(e.Sizes())
	for _, m := range msgs {
		raw := message.Encode(m, e.Sizes())
		body.PutUint8(uint8(m.Type()))
		body.PutUint16(uint16(len(raw)))
		body.PutUint8(messageFlags(m))
		body.PutBytes(raw)
	}
	if gap := minChunk - body.Len(); gap >= 4 {
		body.PutUint8(uint8(message.TypeNIL))
		body.PutUint16(uint16(gap - 4))
		body.PutUint8(0)
		body.PutZeros(gap - 4)
	}

	size := body.Len()
	var width uint8
	switch {
	case size <= 0xFF:
		width = 0
	case size <= 0xFFFF:
		width = 1
	default:
		width = 2
	}

	start := e.Len()
	e.PutBytes([]byte("OHDR"))
	e.PutUint8(2)
	e.PutUint8(width)
	e.PutUintN(uint64(size), 1<<width)
	e.PutBytes(body.Bytes())
	e.PutChecksum(start)
}

// EncodedSize returns the number of bytes Encode would append.
func EncodedSize(msgs []message.Encoder, sizes binary.Sizes, minChunk int) int {
	e := binary.NewEncoder(sizes)
	Encode(e, msgs, minChunk)
	return e.Len()
}

// messageFlags marks datatype messages constant, as the reference library
// does.
func messageFlags(m message.Encoder) uint8 {
	if m.Type() == message.TypeDatatype {
		return 0x01
	}
	return 0
}
