package adfh

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/hdf5"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// create adds an empty node called name under pg.
func (s *Session) create(pg *hdf5.Group, name string) (*hdf5.Group, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if isLinkNode(pg) {
		return nil, fail(ErrLinkNode, errors.Errorf("%s", pg.Path()))
	}
	if pg.Has(name) {
		return nil, fail(DuplicateChildName, errors.Errorf("%q under %s", name, pg.Path()))
	}
	pos := countChildren(pg)

	g, err := pg.CreateGroup(name)
	if err != nil {
		return nil, fail(ErrGCreate, err)
	}
	if err := stamp(g, name, "", dtype.MT); err != nil {
		return nil, err
	}
	if err := s.order.place(g, pos); err != nil {
		return nil, err
	}
	return g, nil
}

// stamp writes the three attributes every node carries.
func stamp(g *hdf5.Group, name, label string, code dtype.Code) error {
	if err := createString(g, attrName, name, MaxNameLength); err != nil {
		return err
	}
	if err := createString(g, attrLabel, label, MaxLabelLength); err != nil {
		return err
	}
	return createString(g, attrType, string(code), dtype.CodeLength)
}

// Create adds an empty child called name under parent.
func (s *Session) Create(parent *Node, name string) (node *Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("Create", err) }()

	pg, err := group(parent)
	if err != nil {
		return nil, err
	}
	g, err := s.create(pg, name)
	if err != nil {
		return nil, err
	}
	return &Node{g: g}, nil
}

// Delete removes node and everything below it from parent. Deleting a
// link removes the link only.
func (s *Session) Delete(parent, node *Node) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("Delete", err) }()

	pg, err := group(parent)
	if err != nil {
		return err
	}
	g, err := group(node)
	if err != nil {
		return err
	}
	if isLinkNode(pg) {
		return fail(ErrLinkDelete, nil)
	}
	c, ok := isChild(pg, g)
	if !ok {
		return fail(ChildNotOfGivenParent, nil)
	}
	pos, placed := s.order.position(g)

	if !isLinkNode(g) {
		if err := deleteTree(g); err != nil {
			return err
		}
	}
	if err := pg.Unlink(c.name); err != nil {
		return fail(ErrGUnlink, err)
	}
	if placed {
		if err := s.order.removed(pg, pos); err != nil {
			return err
		}
	}
	s.log.WithField("node", hdf5.JoinPath(pg.Path(), c.name)).Debug("deleted")
	return nil
}

// Move relinks node from parent to newParent under its current name.
func (s *Session) Move(parent, node, newParent *Node) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("Move", err) }()

	pg, err := group(parent)
	if err != nil {
		return err
	}
	g, err := group(node)
	if err != nil {
		return err
	}
	npg, err := group(newParent)
	if err != nil {
		return err
	}
	if isLinkNode(pg) || isLinkNode(npg) {
		return fail(ErrLinkMove, nil)
	}
	c, ok := isChild(pg, g)
	if !ok {
		return fail(ChildNotOfGivenParent, nil)
	}
	if npg.File() != pg.File() {
		return fail(NodesNotInSameFile, nil)
	}
	if npg == pg {
		return nil
	}
	newPos := countChildren(npg)
	oldPos, placed := s.order.position(g)

	if err := pg.Move(c.name, npg, c.name); err != nil {
		if errors.Is(err, hdf5.ErrExists) {
			return fail(DuplicateChildName, err)
		}
		return fail(ErrGMove, err)
	}
	if err := s.order.place(g, newPos); err != nil {
		return err
	}
	if placed {
		if err := s.order.removed(pg, oldPos); err != nil {
			return err
		}
	}
	s.log.WithFields(logrus.Fields{"node": c.name, "from": pg.Path(), "to": npg.Path()}).Debug("moved")
	return nil
}

// PutName renames node, a child of parent.
func (s *Session) PutName(parent, node *Node, name string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("PutName", err) }()

	pg, err := group(parent)
	if err != nil {
		return err
	}
	g, err := group(node)
	if err != nil {
		return err
	}
	name, err = ValidateName(name)
	if err != nil {
		return err
	}
	if isLinkNode(pg) {
		return fail(ErrLinkData, nil)
	}
	if pg.Has(name) {
		return fail(DuplicateChildName, errors.Errorf("%q under %s", name, pg.Path()))
	}
	c, ok := isChild(pg, g)
	if !ok {
		return fail(ChildNotOfGivenParent, nil)
	}
	if err := pg.Move(c.name, pg, name); err != nil {
		return fail(ErrGMove, err)
	}
	return setString(g, attrName, name)
}

// GetName returns the name attribute of node itself; links are not
// followed.
func (s *Session) GetName(node *Node) (name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetName", err) }()

	g, err := group(node)
	if err != nil {
		return "", err
	}
	return getString(g, attrName)
}

// GetLabel returns the label of the node, or of its target for a link.
func (s *Session) GetLabel(node *Node) (label string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetLabel", err) }()

	g, err := group(node)
	if err != nil {
		return "", err
	}
	if g, err = s.follow(g); err != nil {
		return "", err
	}
	return getString(g, attrLabel)
}

// SetLabel replaces the label of node. Links keep their label.
func (s *Session) SetLabel(node *Node, label string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("SetLabel", err) }()

	g, err := group(node)
	if err != nil {
		return err
	}
	if err := validateLabel(label); err != nil {
		return err
	}
	if isLinkNode(g) {
		return fail(ErrLinkData, nil)
	}
	return setString(g, attrLabel, label)
}

// NumberOfChildren counts the visible children of node, following links.
func (s *Session) NumberOfChildren(node *Node) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("NumberOfChildren", err) }()

	g, err := group(node)
	if err != nil {
		return 0, err
	}
	if g, err = s.follow(g); err != nil {
		return 0, err
	}
	return countChildren(g), nil
}

// ChildrenNames returns the names of the children at positions [start,
// start+n), in order, each cut to maxLen characters.
func (s *Session) ChildrenNames(node *Node, start, n, maxLen int) (names []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("ChildrenNames", err) }()

	kids, err := s.children(node, start, n)
	if err != nil {
		return nil, err
	}
	if maxLen < 1 {
		return nil, fail(NumberLessThanMinimum, errors.Errorf("name length %d", maxLen))
	}
	names = make([]string, len(kids))
	for i, c := range kids {
		name := c.name
		if len(name) > maxLen {
			name = name[:maxLen]
		}
		names[i] = name
	}
	return names, nil
}

// ChildrenIDs is ChildrenNames returning handles. Each handle should be
// released when the caller is done with it.
func (s *Session) ChildrenIDs(node *Node, start, n int) (ids []*Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("ChildrenIDs", err) }()

	kids, err := s.children(node, start, n)
	if err != nil {
		return nil, err
	}
	ids = make([]*Node, len(kids))
	for i, c := range kids {
		ids[i] = &Node{g: c.g}
	}
	return ids, nil
}

func (s *Session) children(node *Node, start, n int) ([]child, error) {
	g, err := group(node)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, fail(NumberLessThanMinimum, errors.Errorf("start %d", start))
	}
	if n < 1 {
		return nil, fail(NumberLessThanMinimum, errors.Errorf("count %d", n))
	}
	if g, err = s.follow(g); err != nil {
		return nil, err
	}
	return window(g, s.order, start, n)
}

// GetNodeID looks name up below parent. A name starting with "/" is a
// path from the root of parent's file, any other name is relative to
// parent and may hold several components. Links met on the way are
// followed.
func (s *Session) GetNodeID(parent *Node, name string) (node *Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetNodeID", err) }()

	pg, err := group(parent)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fail(NullStringPointer, nil)
	}
	if strings.HasPrefix(name, "/") {
		g, err := s.parsePath(pg.File().Root(), name)
		if err != nil {
			return nil, err
		}
		return &Node{g: g}, nil
	}
	if pg, err = s.follow(pg); err != nil {
		return nil, err
	}
	if strings.Contains(name, "/") {
		g, err := s.parsePath(pg, name)
		if err != nil {
			return nil, err
		}
		return &Node{g: g}, nil
	}
	c, ok := lookupChild(pg, name)
	if !ok {
		return nil, fail(ErrGOpen, errors.Errorf("%q under %s", name, pg.Path()))
	}
	return &Node{g: c.g}, nil
}

// parsePath walks path from g. Every component but the last is followed
// if it is a link; the last is returned as found.
func (s *Session) parsePath(g *hdf5.Group, path string) (*hdf5.Group, error) {
	parts := hdf5.SplitPath(path)
	if len(parts) == 0 {
		return g, nil
	}
	for i, name := range parts {
		c, ok := lookupChild(g, name)
		if !ok {
			return nil, fail(ErrGOpen, errors.Errorf("%q in %s", name, path))
		}
		g = c.g
		if i < len(parts)-1 {
			next, err := s.follow(g)
			if err != nil {
				return nil, err
			}
			g = next
		}
	}
	return g, nil
}

// GetRootID returns the root node of the file holding node.
func (s *Session) GetRootID(node *Node) (root *Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetRootID", err) }()

	g, err := group(node)
	if err != nil {
		return nil, err
	}
	return &Node{g: g.File().Root()}, nil
}
