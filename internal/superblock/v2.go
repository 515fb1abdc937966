package superblock

import (
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

/*
Version 2/3 layout:

	0      signature (8)
	8      version, offset size, length size, consistency flags
	12     base address (O)
	12+O   superblock extension address (O)
	12+2O  EOF address (O)
	12+3O  root group object header address (O)
	12+4O  lookup3 checksum (4)
*/

func readV2(image []byte, off int) (*Superblock, error) {
	d := binary.NewDecoder(image, binary.DefaultSizes).At(uint64(off + len(Signature)))
	sb := &Superblock{
		Version:    d.Uint8(),
		OffsetSize: d.Uint8(),
		LengthSize: d.Uint8(),
		Flags:      d.Uint8(),
	}
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("superblock v2: %w", err)
	}
	if err := sb.Sizes().Validate(); err != nil {
		return nil, err
	}

	d = d.WithSizes(sb.Sizes())
	sb.BaseAddress = d.Offset()
	sb.ExtensionAddress = d.Offset()
	sb.EOFAddress = d.Offset()
	sb.RootAddress = d.Offset()
	end := d.Pos()
	stored := d.Uint32()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("superblock v%d: %w", sb.Version, err)
	}
	if !binary.VerifyLookup3(image[off:end], stored) {
		return nil, ErrChecksum
	}
	return sb, nil
}

// Size is the encoded length of a version 2/3 superblock.
func (sb *Superblock) Size() int {
	o := int(sb.OffsetSize)
	if o == 0 {
		o = binary.DefaultSizes.Offset
	}
	return len(Signature) + 4 + 4*o + 4
}

// Encode appends a version 3 superblock to e. The extension address is
// always written as undefined.
func (sb *Superblock) Encode(e *binary.Encoder) {
	start := e.Len()
	e.PutBytes(Signature)
	e.PutUint8(3)
	e.PutUint8(uint8(e.Sizes().Offset))
	e.PutUint8(uint8(e.Sizes().Length))
	e.PutUint8(sb.Flags)
	e.PutOffset(sb.BaseAddress)
	e.PutUndefined()
	e.PutOffset(sb.EOFAddress)
	e.PutOffset(sb.RootAddress)
	e.PutChecksum(start)
}
