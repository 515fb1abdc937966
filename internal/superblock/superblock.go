// Package superblock decodes and encodes the HDF5 superblock.
//
// The superblock is the entry point for any HDF5 file. It records the widths
// of file addresses and lengths, the logical end of file and the location of
// the root group's object header.
package superblock

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// Signature is the eight byte HDF5 format signature.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

// searchOffsets lists where a superblock may start, in probe order.
var searchOffsets = []int{0, 512, 1024, 2048}

var (
	ErrNotHDF5            = errors.New("superblock: HDF5 signature not found")
	ErrUnsupportedVersion = errors.New("superblock: unsupported version")
	ErrChecksum           = errors.New("superblock: checksum mismatch")
)

// Superblock holds the fields of a superblock that the container needs.
type Superblock struct {
	Version    uint8
	OffsetSize uint8
	LengthSize uint8
	Flags      uint8

	BaseAddress      uint64
	ExtensionAddress uint64
	EOFAddress       uint64
	RootAddress      uint64

	// Version 0/1 only.
	GroupLeafK     uint16
	GroupInternalK uint16

	// Offset of the signature in the file.
	FileOffset int
}

// New returns the version 3 superblock the writer emits.
func New() *Superblock {
	return &Superblock{
		Version:    3,
		OffsetSize: uint8(binary.DefaultSizes.Offset),
		LengthSize: uint8(binary.DefaultSizes.Length),
	}
}

// Sizes returns the address/length widths declared by the superblock.
func (sb *Superblock) Sizes() binary.Sizes {
	return binary.Sizes{Offset: int(sb.OffsetSize), Length: int(sb.LengthSize)}
}

// Locate returns the offset of the signature in image, or -1.
func Locate(image []byte) int {
	for _, off := range searchOffsets {
		if off+len(Signature) > len(image) {
			break
		}
		if bytes.Equal(image[off:off+len(Signature)], Signature) {
			return off
		}
	}
	return -1
}

// Read locates and decodes the superblock in a file image.
func Read(image []byte) (*Superblock, error) {
	off := Locate(image)
	if off < 0 {
		return nil, ErrNotHDF5
	}
	if off+len(Signature) >= len(image) {
		return nil, fmt.Errorf("superblock: truncated at %d", off)
	}

	var (
		sb  *Superblock
		err error
	)
	switch v := image[off+len(Signature)]; v {
	case 0, 1:
		sb, err = readV0(image, off, v)
	case 2, 3:
		sb, err = readV2(image, off)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	if err != nil {
		return nil, err
	}
	if err := sb.Sizes().Validate(); err != nil {
		return nil, err
	}
	sb.FileOffset = off
	return sb, nil
}
