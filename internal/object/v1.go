package object

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/message"
)

/*
Version 1 header:

	0   version (1), reserved
	2   number of messages (2)
	4   reference count (4)
	8   size of the first chunk (4)
	12  padding to 16

Each message: type (2), size (2), flags (1), reserved (3), body padded to 8.
Continuation chunks hold bare messages.
*/

func readV1(d *binary.Decoder, addr uint64) (*Header, error) {
	d.Uint8()
	d.Uint8()
	count := int(d.Uint16())
	d.Uint32()
	size := int(d.Uint32())
	d.Skip(4)
	if err := d.Err(); err != nil {
		return nil, err
	}

	h := &Header{Version: 1, Address: addr}
	pending := []chunk{{d.Pos(), d.Pos() + size}}
	seen := 0
	for n := 0; len(pending) > 0; n++ {
		if n > maxContinuations {
			return nil, fmt.Errorf("%w: too many continuation blocks", ErrInvalidHeader)
		}
		c := pending[0]
		pending = pending[1:]

		cd := d.At(uint64(c.start))
		for cd.Pos()+8 <= c.end && seen < count {
			typ := message.Type(cd.Uint16())
			mlen := int(cd.Uint16())
			flags := cd.Uint8()
			cd.Skip(3)
			body := cd.Bytes(mlen)
			cd.Align(c.start, 8)
			if err := cd.Err(); err != nil {
				return nil, err
			}
			seen++

			m, err := decodeMessage(typ, flags, body, d.Sizes())
			if err != nil {
				return nil, err
			}
			if m == nil {
				continue
			}
			if cont, ok := m.(*message.Continuation); ok {
				pending = append(pending, chunk{int(cont.Offset), int(cont.Offset + cont.Length)})
				continue
			}
			h.Messages = append(h.Messages, m)
		}
	}
	return h, nil
}
