package layout

import (
	"errors"
	"fmt"
)

// ErrSelection reports a hyperslab that does not fit its extent.
var ErrSelection = errors.New("layout: invalid hyperslab")

// Hyperslab is a strided rectangular selection in a row-major space: along
// dimension k it selects Start[k] + i*Stride[k] for i in [0, Count[k]).
type Hyperslab struct {
	Start  []uint64
	Stride []uint64
	Count  []uint64
}

// All selects every element of a space with the given extents.
func All(dims []uint64) Hyperslab {
	h := Hyperslab{
		Start:  make([]uint64, len(dims)),
		Stride: make([]uint64, len(dims)),
		Count:  append([]uint64(nil), dims...),
	}
	for i := range h.Stride {
		h.Stride[i] = 1
	}
	return h
}

// NumElements is the number of selected elements.
func (h Hyperslab) NumElements() uint64 {
	if len(h.Count) == 0 {
		return 0
	}
	n := uint64(1)
	for _, c := range h.Count {
		n *= c
	}
	return n
}

// Validate checks that h has the rank of dims and stays inside it.
func (h Hyperslab) Validate(dims []uint64) error {
	if len(h.Start) != len(dims) || len(h.Stride) != len(dims) || len(h.Count) != len(dims) {
		return fmt.Errorf("%w: rank %d/%d/%d against space of rank %d",
			ErrSelection, len(h.Start), len(h.Stride), len(h.Count), len(dims))
	}
	for k := range dims {
		if h.Stride[k] == 0 {
			return fmt.Errorf("%w: zero stride in dimension %d", ErrSelection, k)
		}
		if h.Count[k] == 0 {
			continue
		}
		last := h.Start[k] + (h.Count[k]-1)*h.Stride[k]
		if last >= dims[k] {
			return fmt.Errorf("%w: dimension %d reaches %d, extent is %d", ErrSelection, k, last, dims[k])
		}
	}
	return nil
}

// Offsets lists the linear element indices selected by h in dims, in
// row-major order (last dimension fastest).
func (h Hyperslab) Offsets(dims []uint64) ([]uint64, error) {
	if err := h.Validate(dims); err != nil {
		return nil, err
	}
	n := h.NumElements()
	out := make([]uint64, 0, n)
	if n == 0 {
		return out, nil
	}

	rank := len(dims)
	pitch := make([]uint64, rank)
	p := uint64(1)
	for k := rank - 1; k >= 0; k-- {
		pitch[k] = p
		p *= dims[k]
	}

	idx := make([]uint64, rank)
	for {
		var off uint64
		for k := 0; k < rank; k++ {
			off += (h.Start[k] + idx[k]*h.Stride[k]) * pitch[k]
		}
		out = append(out, off)

		k := rank - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < h.Count[k] {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return out, nil
		}
	}
}

// Copy moves the elements selected by srcSel in src to the positions
// selected by dstSel in dst. Both selections must pick the same number of
// elements.
func Copy(dst []byte, dstDims []uint64, dstSel Hyperslab, src []byte, srcDims []uint64, srcSel Hyperslab, elemSize int) error {
	if a, b := srcSel.NumElements(), dstSel.NumElements(); a != b {
		return fmt.Errorf("%w: %d source elements against %d destination elements", ErrSelection, a, b)
	}
	from, err := srcSel.Offsets(srcDims)
	if err != nil {
		return err
	}
	to, err := dstSel.Offsets(dstDims)
	if err != nil {
		return err
	}
	es := uint64(elemSize)
	for i := range from {
		s, d := from[i]*es, to[i]*es
		if s+es > uint64(len(src)) || d+es > uint64(len(dst)) {
			return fmt.Errorf("%w: element %d outside buffer", ErrSelection, i)
		}
		copy(dst[d:d+es], src[s:s+es])
	}
	return nil
}
