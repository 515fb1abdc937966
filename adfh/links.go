package adfh

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/hdf5"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// follow returns the node g stands for: g itself unless it is a link, the
// end of the link chain otherwise.
func (s *Session) follow(g *hdf5.Group) (*hdf5.Group, error) {
	for depth := 0; ; depth++ {
		if !isLinkNode(g) {
			return g, nil
		}
		if depth >= s.cfg.LinkDepth {
			return nil, fail(LinksTooDeep, errors.Errorf("at %s", g.Path()))
		}
		next, err := s.target(g)
		if err != nil {
			return nil, err
		}
		g = next
	}
}

// target resolves the hidden link entry of the link node g one step.
func (s *Session) target(g *hdf5.Group) (*hdf5.Group, error) {
	l, ok := g.Lookup(hiddenLink)
	if !ok {
		return nil, fail(ErrObjInfoFailed, errors.Errorf("%s has no link entry", g.Path()))
	}
	if l.Kind == hdf5.LinkHard {
		return nil, fail(ErrNotXLink, errors.Errorf("%s", g.Path()))
	}
	obj, err := g.Resolve(hiddenLink)
	switch {
	case errors.Is(err, hdf5.ErrExternalFile):
		return nil, fail(LinkedToFileNotThere, err)
	case errors.Is(err, hdf5.ErrLinkDepth):
		return nil, fail(LinksTooDeep, err)
	case err != nil:
		return nil, fail(LinkTargetNotThere, err)
	}
	tg, ok := obj.(*hdf5.Group)
	if !ok {
		return nil, fail(LinkTargetNotThere, errors.Errorf("%s is not a node", obj.Path()))
	}
	return tg, nil
}

// IsLink returns the combined length of the link's path and file entries,
// each counted with its terminator, or 0 when n is not a link.
func (s *Session) IsLink(n *Node) (length int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("IsLink", err) }()

	g, err := group(n)
	if err != nil {
		return 0, err
	}
	v, err := describe(g)
	if err != nil {
		return 0, err
	}
	if !v.isLink() {
		return 0, nil
	}
	_, np, err := readText(g, hiddenPath)
	if err != nil {
		return 0, err
	}
	if g.Has(hiddenFile) {
		_, nf, err := readText(g, hiddenFile)
		if err != nil {
			return 0, err
		}
		np += nf
	}
	return np, nil
}

// GetLinkPath returns the file and path a link node points to. file is ""
// for a link within the same file.
func (s *Session) GetLinkPath(n *Node) (file, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("GetLinkPath", err) }()

	g, err := group(n)
	if err != nil {
		return "", "", err
	}
	v, err := describe(g)
	if err != nil {
		return "", "", err
	}
	if !v.isLink() {
		return "", "", fail(NodeIsNotALink, nil)
	}
	if path, _, err = readText(g, hiddenPath); err != nil {
		return "", "", err
	}
	if g.Has(hiddenFile) {
		if file, _, err = readText(g, hiddenFile); err != nil {
			return "", "", err
		}
	}
	return file, path, nil
}

// Link creates a child of parent called name that redirects to path, in
// file when it is not empty and in parent's own file otherwise. The
// target does not have to exist yet.
func (s *Session) Link(parent *Node, name, file, path string) (node *Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("Link", err) }()

	pg, err := group(parent)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fail(NullStringPointer, nil)
	}
	g, err := s.create(pg, name)
	if err != nil {
		return nil, err
	}
	if err := setString(g, attrType, string(dtype.LK)); err != nil {
		return nil, err
	}

	if file != "" {
		err = g.CreateExternalLink(hiddenLink, file, path)
	} else {
		target := path
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		err = g.CreateSoftLink(hiddenLink, target)
	}
	if err != nil {
		return nil, fail(ErrGLink, err)
	}

	if err := writeText(g, hiddenPath, path, 0); err != nil {
		return nil, err
	}
	if file != "" {
		if err := writeText(g, hiddenFile, file, 0); err != nil {
			return nil, err
		}
	}
	s.log.WithField("node", g.Path()).WithField("target", file+":"+path).Debug("link created")
	return &Node{g: g}, nil
}
