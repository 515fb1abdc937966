package hdf5

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/internal/layout"
	"github.com/robert-malhotra/go-adfh/internal/message"
)

// Dataset is an n-dimensional array of fixed-size elements, held in
// memory as little-endian bytes in row-major order.
type Dataset struct {
	object
	mt    *message.Datatype
	dtype Datatype
	dims  []uint64
	null  bool
	data  []byte
}

// Dims returns a copy of the extent; empty for scalar and null spaces.
func (d *Dataset) Dims() []uint64 { return append([]uint64(nil), d.dims...) }

// Rank is the number of dimensions.
func (d *Dataset) Rank() int { return len(d.dims) }

// NumElements is the number of elements in the extent.
func (d *Dataset) NumElements() uint64 {
	if d.null {
		return 0
	}
	return elements(d.dims)
}

// Type is the element type.
func (d *Dataset) Type() Datatype { return d.dtype }

// Size is the payload length in bytes.
func (d *Dataset) Size() int { return len(d.data) }

// ReadAll returns a copy of the whole payload.
func (d *Dataset) ReadAll() []byte { return append([]byte(nil), d.data...) }

// WriteAll replaces the whole payload; b must match its size.
func (d *Dataset) WriteAll(b []byte) error {
	if err := d.file.writable(); err != nil {
		return err
	}
	if len(b) != len(d.data) {
		return errors.Wrapf(ErrSelection, "%s holds %d bytes, got %d", d.Path(), len(d.data), len(b))
	}
	copy(d.data, b)
	d.file.touch()
	return nil
}

// Selection is a hyperslab of a space: along dimension k it picks
// Start[k] + i*Stride[k] for i in [0, Count[k]). Space is the extent being
// selected from; for the dataset side of a transfer it may be left nil.
type Selection struct {
	Space  []uint64
	Start  []uint64
	Stride []uint64
	Count  []uint64
}

// SelectAll selects every element of dims.
func SelectAll(dims []uint64) Selection {
	h := layout.All(dims)
	return Selection{Space: append([]uint64(nil), dims...), Start: h.Start, Stride: h.Stride, Count: h.Count}
}

// NumElements is the number of selected elements.
func (s Selection) NumElements() uint64 { return s.slab().NumElements() }

func (s Selection) slab() layout.Hyperslab {
	return layout.Hyperslab{Start: s.Start, Stride: s.Stride, Count: s.Count}
}

func (d *Dataset) diskSpace(s Selection) (Selection, error) {
	if s.Space == nil {
		s.Space = d.dims
		return s, nil
	}
	if len(s.Space) != len(d.dims) {
		return s, errors.Wrapf(ErrSelection, "space %v against extent %v", s.Space, d.dims)
	}
	for i := range s.Space {
		if s.Space[i] != d.dims[i] {
			return s, errors.Wrapf(ErrSelection, "space %v against extent %v", s.Space, d.dims)
		}
	}
	return s, nil
}

func selectionError(err error) error {
	if errors.Is(err, layout.ErrSelection) {
		return errors.Wrap(ErrSelection, err.Error())
	}
	return err
}

// Read copies the elements picked by disk into the positions picked by mem
// in buf, which is laid out as mem.Space.
func (d *Dataset) Read(disk, mem Selection, buf []byte) error {
	disk, err := d.diskSpace(disk)
	if err != nil {
		return err
	}
	size := d.dtype.Size
	if need := elements(mem.Space) * uint64(size); uint64(len(buf)) < need {
		return errors.Wrapf(ErrSelection, "buffer of %d bytes for %d", len(buf), need)
	}
	return selectionError(layout.Copy(buf, mem.Space, mem.slab(), d.data, disk.Space, disk.slab(), size))
}

// Write copies the elements picked by mem in buf into the positions
// picked by disk.
func (d *Dataset) Write(disk, mem Selection, buf []byte) error {
	if err := d.file.writable(); err != nil {
		return err
	}
	disk, err := d.diskSpace(disk)
	if err != nil {
		return err
	}
	size := d.dtype.Size
	if need := elements(mem.Space) * uint64(size); uint64(len(buf)) < need {
		return errors.Wrapf(ErrSelection, "buffer of %d bytes for %d", len(buf), need)
	}
	if err := layout.Copy(d.data, disk.Space, disk.slab(), buf, mem.Space, mem.slab(), size); err != nil {
		return selectionError(err)
	}
	d.file.touch()
	return nil
}

// SetExtent reshapes the dataset without touching its bytes. The new
// extent must hold the same number of elements.
func (d *Dataset) SetExtent(dims []uint64) error {
	if err := d.file.writable(); err != nil {
		return err
	}
	if d.null || len(dims) == 0 || elements(dims) != elements(d.dims) {
		return errors.Wrapf(ErrSelection, "extent %v cannot replace %v", dims, d.dims)
	}
	d.dims = append([]uint64(nil), dims...)
	d.file.touch()
	return nil
}
