package superblock

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

/*
Version 0/1 layout after the signature:

	0   version, free-space version, root entry version, reserved
	4   shared header version, offset size, length size, reserved
	8   group leaf K (2), group internal K (2)
	12  consistency flags (4)
	16  v1 only: indexed storage K (2), reserved (2)
	    base, free-space, EOF and driver addresses (O each)
	    root group symbol table entry: name offset (O), header address (O), ...
*/

func readV0(image []byte, off int, version uint8) (*Superblock, error) {
	d := binary.NewDecoder(image, binary.DefaultSizes).At(uint64(off + len(Signature)))
	head := d.Bytes(16)
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("superblock v%d: %w", version, err)
	}

	sb := &Superblock{
		Version:        version,
		OffsetSize:     head[5],
		LengthSize:     head[6],
		GroupLeafK:     uint16(head[8]) | uint16(head[9])<<8,
		GroupInternalK: uint16(head[10]) | uint16(head[11])<<8,
	}
	if err := sb.Sizes().Validate(); err != nil {
		return nil, err
	}
	d = d.WithSizes(sb.Sizes())
	if version == 1 {
		d.Skip(4)
	}

	sb.BaseAddress = d.Offset()
	d.Offset() // free-space info
	sb.EOFAddress = d.Offset()
	d.Offset() // driver info

	d.Offset() // root entry name offset
	sb.RootAddress = d.Offset()

	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("superblock v%d: %w", version, err)
	}
	return sb, nil
}
