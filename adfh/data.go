package adfh

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

// Range picks, along each dimension k, (End[k]-Start[k]+1)/Stride[k]
// elements at the 1-based positions Start[k], Start[k]+Stride[k], ...
// The count rounds down, so a last position equal to End[k] is only
// selected when Stride[k] divides the span: 1..5 by 2 selects 1 and 3.
// Dimension 0 varies fastest.
type Range struct {
	Start  []int
	End    []int
	Stride []int
}

// Span is the range covering every element of dims.
func Span(dims []int) Range {
	r := Range{
		Start:  make([]int, len(dims)),
		End:    append([]int(nil), dims...),
		Stride: make([]int, len(dims)),
	}
	for i := range dims {
		r.Start[i], r.Stride[i] = 1, 1
	}
	return r
}

// selection checks r against extents, both in caller order, and converts
// it to a container selection in stored order.
func (r Range) selection(extents []int) (hdf5.Selection, error) {
	n := len(extents)
	if len(r.Start) != n || len(r.End) != n || len(r.Stride) != n {
		return hdf5.Selection{}, fail(BadNumberOfDimensions,
			errors.Errorf("range of rank %d/%d/%d against %d", len(r.Start), len(r.End), len(r.Stride), n))
	}
	sel := hdf5.Selection{
		Start:  make([]uint64, n),
		Stride: make([]uint64, n),
		Count:  make([]uint64, n),
	}
	for k := 0; k < n; k++ {
		start, end, stride := r.Start[k], r.End[k], r.Stride[k]
		switch {
		case start < 1:
			return sel, fail(StartOutOfDefinedRange, errors.Errorf("dimension %d starts at %d", k+1, start))
		case end > extents[k]:
			return sel, fail(EndOutOfDefinedRange, errors.Errorf("dimension %d ends at %d of %d", k+1, end, extents[k]))
		case start > end:
			return sel, fail(MinimumGTMaximum, errors.Errorf("dimension %d: %d > %d", k+1, start, end))
		case stride < 1 || stride > end-start+1:
			return sel, fail(BadStrideValue, errors.Errorf("dimension %d stride %d", k+1, stride))
		}
		j := n - 1 - k
		sel.Start[j] = uint64(start - 1)
		sel.Stride[j] = uint64(stride)
		sel.Count[j] = uint64((end - start + 1) / stride)
	}
	return sel, nil
}

// transfer is a validated strided copy between a payload and a buffer.
type transfer struct {
	d         *hdf5.Dataset
	disk, mem hdf5.Selection
}

func (s *Session) prepare(g *hdf5.Group, disk Range, memDims []int, mem Range, buf []byte) (*transfer, error) {
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return nil, fail(NoData, nil)
	}
	if d.Rank() > 1 && !swapped(g.File().Root()) {
		return nil, fail(ErrNeedTranspose, nil)
	}
	ds, err := disk.selection(callerDims(d))
	if err != nil {
		return nil, err
	}

	if len(memDims) < 1 || len(memDims) > MaxDimensions {
		return nil, fail(BadNumberOfDimensions, errors.Errorf("memory rank %d", len(memDims)))
	}
	space := make([]uint64, len(memDims))
	for k, v := range memDims {
		if v < 1 {
			return nil, fail(BadDimensionValue, errors.Errorf("memory dimension %d is %d", k+1, v))
		}
		space[len(memDims)-1-k] = uint64(v)
	}
	ms, err := mem.selection(memDims)
	if err != nil {
		return nil, err
	}
	ms.Space = space

	if ds.NumElements() != ms.NumElements() {
		return nil, fail(UnequalMemoryAndDiskDims,
			errors.Errorf("%d elements on disk, %d in memory", ds.NumElements(), ms.NumElements()))
	}
	if buf == nil {
		return nil, fail(NullPointer, nil)
	}
	if need := int(spaceBytes(space, d.Type().Size)); len(buf) < need {
		return nil, fail(RequestedDataTooLong, errors.Errorf("buffer of %d bytes, memory shape needs %d", len(buf), need))
	}
	return &transfer{d: d, disk: ds, mem: ms}, nil
}

func spaceBytes(space []uint64, size int) uint64 {
	n := uint64(size)
	for _, v := range space {
		n *= v
	}
	return n
}

// ReadData copies the elements disk selects from the payload of node into
// the positions mem selects in buf, which is laid out with extents
// memDims. Links are followed.
func (s *Session) ReadData(node *Node, disk Range, memDims []int, mem Range, buf []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("ReadData", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return err
	}
	t, err := s.prepare(g, disk, memDims, mem, buf)
	if err != nil {
		return err
	}
	if err := t.d.Read(t.disk, t.mem, buf); err != nil {
		return fail(ErrDRead, err)
	}
	return nil
}

// WriteData is the reverse of ReadData. Links cannot be written through.
func (s *Session) WriteData(node *Node, disk Range, memDims []int, mem Range, buf []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("WriteData", err) }()

	g, err := group(node)
	if err != nil {
		return err
	}
	if isLinkNode(g) {
		return fail(ErrLinkData, nil)
	}
	t, err := s.prepare(g, disk, memDims, mem, buf)
	if err != nil {
		return err
	}
	if err := t.d.Write(t.disk, t.mem, buf); err != nil {
		return fail(ErrDWrite, err)
	}
	return nil
}

// ReadAllData returns a copy of the whole payload.
func (s *Session) ReadAllData(node *Node) (data []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("ReadAllData", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return nil, err
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return nil, fail(NoData, nil)
	}
	return d.ReadAll(), nil
}

// WriteAllData replaces the whole payload; buf must match its size.
func (s *Session) WriteAllData(node *Node, buf []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("WriteAllData", err) }()

	g, err := group(node)
	if err != nil {
		return err
	}
	if isLinkNode(g) {
		return fail(ErrLinkData, nil)
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return fail(NoData, nil)
	}
	if len(buf) != d.Size() {
		return fail(UnequalMemoryAndDiskDims, errors.Errorf("%d bytes for a payload of %d", len(buf), d.Size()))
	}
	if err := d.WriteAll(buf); err != nil {
		return fail(ErrDWrite, err)
	}
	return nil
}

// block checks a 1-based element range of the flattened payload and
// returns the matching byte offsets.
func block(d *hdf5.Dataset, start, end int) (int, int, error) {
	switch {
	case start > end:
		return 0, 0, fail(MinimumGTMaximum, errors.Errorf("%d > %d", start, end))
	case start < 1:
		return 0, 0, fail(StartOutOfDefinedRange, errors.Errorf("start %d", start))
	case uint64(end) > d.NumElements():
		return 0, 0, fail(EndOutOfDefinedRange, errors.Errorf("end %d of %d", end, d.NumElements()))
	}
	size := d.Type().Size
	return (start - 1) * size, end * size, nil
}

// ReadBlockData returns elements start through end of the flattened
// payload, ignoring its shape.
func (s *Session) ReadBlockData(node *Node, start, end int) (data []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("ReadBlockData", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return nil, err
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return nil, fail(NoData, nil)
	}
	lo, hi, err := block(d, start, end)
	if err != nil {
		return nil, err
	}
	return d.ReadAll()[lo:hi], nil
}

// WriteBlockData overwrites elements start through end of the flattened
// payload with buf. The whole payload is read, patched and written back.
func (s *Session) WriteBlockData(node *Node, start, end int, buf []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("WriteBlockData", err) }()

	if start > end {
		return fail(MinimumGTMaximum, errors.Errorf("%d > %d", start, end))
	}
	if start < 1 {
		return fail(StartOutOfDefinedRange, errors.Errorf("start %d", start))
	}
	g, err := group(node)
	if err != nil {
		return err
	}
	if isLinkNode(g) {
		return fail(ErrLinkData, nil)
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return fail(NoData, nil)
	}
	lo, hi, err := block(d, start, end)
	if err != nil {
		return err
	}
	if len(buf) < hi-lo {
		return fail(RequestedDataTooLong, errors.Errorf("%d bytes for %d", len(buf), hi-lo))
	}
	all := d.ReadAll()
	copy(all[lo:hi], buf)
	if err := d.WriteAll(all); err != nil {
		return fail(ErrDWrite, err)
	}
	return nil
}
