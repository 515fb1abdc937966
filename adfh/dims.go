package adfh

import (
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/hdf5"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// GetDataType returns the type code of node, following links.
func (s *Session) GetDataType(node *Node) (code string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetDataType", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return "", err
	}
	return getString(g, attrType)
}

// GetNumberOfDimensions returns the rank of the payload; 0 for empty and
// link nodes.
func (s *Session) GetNumberOfDimensions(node *Node) (rank int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetNumberOfDimensions", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return 0, err
	}
	v, err := describe(g)
	if err != nil {
		return 0, err
	}
	if v.kind != KindData {
		return 0, nil
	}
	d, ok := v.data()
	if !ok {
		return 0, fail(NoData, nil)
	}
	return d.Rank(), nil
}

// GetDimensionValues returns the extents of the payload, fastest varying
// dimension first.
func (s *Session) GetDimensionValues(node *Node) (dims []int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetDimensionValues", err) }()

	g, err := s.resolve(node)
	if err != nil {
		return nil, err
	}
	d, ok := hiddenDataset(g, hiddenData)
	if !ok {
		return nil, fail(ZeroDimensions, nil)
	}
	return callerDims(d), nil
}

// callerDims converts stored extents to the caller's order.
func callerDims(d *hdf5.Dataset) []int {
	stored := d.Dims()
	if len(stored) > 1 && swapped(d.File().Root()) {
		stored = reversed(stored)
	}
	dims := make([]int, len(stored))
	for i, v := range stored {
		dims[i] = int(v)
	}
	return dims
}

// PutDimensionInformation gives node a type and a fresh zero-filled payload
// of the given extents. Type MT drops the payload. Any previous payload is
// discarded.
func (s *Session) PutDimensionInformation(node *Node, code string, dims []int) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("PutDimensionInformation", err) }()

	g, err := group(node)
	if err != nil {
		return err
	}
	if isLinkNode(g) {
		return fail(ErrLinkData, nil)
	}

	if c, err := dtype.Parse(code); err == nil && c == dtype.MT {
		if err := dropData(g); err != nil {
			return err
		}
		return setString(g, attrType, string(dtype.MT))
	}
	c, err := ValidateType(code)
	if err != nil {
		return err
	}
	if len(dims) < 1 || len(dims) > MaxDimensions {
		return fail(BadNumberOfDimensions, errors.Errorf("rank %d", len(dims)))
	}
	stored := make([]uint64, len(dims))
	for i, v := range dims {
		if v < 1 {
			return fail(BadDimensionValue, errors.Errorf("dimension %d is %d", i+1, v))
		}
		stored[i] = uint64(v)
	}

	if err := dropData(g); err != nil {
		return err
	}
	if err := setString(g, attrType, string(c)); err != nil {
		return err
	}
	if len(stored) > 1 && swapped(g.File().Root()) {
		stored = reversed(stored)
	}
	t, _ := c.Datatype()
	if _, err := g.CreateDataset(hiddenData, t, stored); err != nil {
		return fail(ErrDCreate, err)
	}
	s.log.WithField("node", g.Path()).WithField("type", string(c)).Debug("dimensions set")
	return nil
}

func dropData(g *hdf5.Group) error {
	if !g.Has(hiddenData) {
		return nil
	}
	if err := g.Unlink(hiddenData); err != nil {
		return fail(ErrGUnlink, err)
	}
	return nil
}

// resolve returns the group behind a handle with links followed.
func (s *Session) resolve(node *Node) (*hdf5.Group, error) {
	g, err := group(node)
	if err != nil {
		return nil, err
	}
	return s.follow(g)
}
