package hdf5

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// LinkKind is the kind of a group member.
type LinkKind int

const (
	LinkHard LinkKind = iota
	LinkSoft
	LinkExternal
)

func (k LinkKind) String() string {
	switch k {
	case LinkHard:
		return "hard"
	case LinkSoft:
		return "soft"
	case LinkExternal:
		return "external"
	}
	return fmt.Sprintf("LinkKind(%d)", int(k))
}

// Link is one member of a group. Target is the path of a soft link, or the
// path inside File for an external link.
type Link struct {
	Name   string
	Kind   LinkKind
	Target string
	File   string

	order uint64
	obj   Object
}

// Object returns the object a hard link points to, nil otherwise.
func (l *Link) Object() Object { return l.obj }

// Order is the creation index of the link within its group.
func (l *Link) Order() uint64 { return l.order }

// Group is a container of named links.
type Group struct {
	object
	links    []*Link
	maxOrder uint64
}

func newGroup(f *File, name string, parent *Group) *Group {
	return &Group{object: newObject(f, name, parent)}
}

// Members lists the links in creation order.
func (g *Group) Members() []*Link {
	return append([]*Link(nil), g.links...)
}

// Names lists the link names in creation order.
func (g *Group) Names() []string {
	names := make([]string, len(g.links))
	for i, l := range g.links {
		names[i] = l.Name
	}
	return names
}

// Len is the number of links.
func (g *Group) Len() int { return len(g.links) }

// Lookup finds the link called name without following it.
func (g *Group) Lookup(name string) (*Link, bool) {
	i := g.index(name)
	if i < 0 {
		return nil, false
	}
	return g.links[i], true
}

// Has reports whether a link called name exists.
func (g *Group) Has(name string) bool { return g.index(name) >= 0 }

func (g *Group) index(name string) int {
	for i, l := range g.links {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// add appends l with the next creation index.
func (g *Group) add(l *Link) {
	l.order = g.maxOrder
	g.maxOrder++
	g.links = append(g.links, l)
	g.file.touch()
}

func (g *Group) checkNew(name string) error {
	if err := g.file.writable(); err != nil {
		return err
	}
	if err := validLinkName(name); err != nil {
		return err
	}
	if g.Has(name) {
		return errors.Wrapf(ErrExists, "%q in %s", name, g.Path())
	}
	return nil
}

// CreateGroup adds an empty child group.
func (g *Group) CreateGroup(name string) (*Group, error) {
	if err := g.checkNew(name); err != nil {
		return nil, err
	}
	child := newGroup(g.file, name, g)
	g.add(&Link{Name: name, Kind: LinkHard, obj: child})
	return child, nil
}

// CreateDataset adds a zero-filled dataset of type t and extent dims. A nil
// dims makes a scalar dataset.
func (g *Group) CreateDataset(name string, t Datatype, dims []uint64) (*Dataset, error) {
	if err := g.checkNew(name); err != nil {
		return nil, err
	}
	mt, err := t.message()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %q", name)
	}
	d := &Dataset{
		object: newObject(g.file, name, g),
		mt:     mt,
		dtype:  t,
		dims:   append([]uint64(nil), dims...),
	}
	d.data = make([]byte, d.NumElements()*uint64(t.Size))
	g.add(&Link{Name: name, Kind: LinkHard, obj: d})
	return d, nil
}

// CreateSoftLink adds a link to target, an absolute path or a path
// relative to g. The target need not exist.
func (g *Group) CreateSoftLink(name, target string) error {
	if err := g.checkNew(name); err != nil {
		return err
	}
	if target == "" {
		return errors.Wrap(ErrInvalidName, "empty soft link target")
	}
	g.add(&Link{Name: name, Kind: LinkSoft, Target: target})
	return nil
}

// CreateExternalLink adds a link to the object at path inside another
// file. Neither needs to exist yet.
func (g *Group) CreateExternalLink(name, file, path string) error {
	if err := g.checkNew(name); err != nil {
		return err
	}
	if file == "" || path == "" {
		return errors.Wrap(ErrInvalidName, "external link needs a file and a path")
	}
	g.add(&Link{Name: name, Kind: LinkExternal, Target: path, File: file})
	return nil
}

// Unlink removes the link called name. An object left without links is
// dropped from the file on the next flush.
func (g *Group) Unlink(name string) error {
	if err := g.file.writable(); err != nil {
		return err
	}
	i := g.index(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q in %s", name, g.Path())
	}
	l := g.links[i]
	g.links = append(g.links[:i], g.links[i+1:]...)
	if l.obj != nil {
		if o := l.obj.base(); o.parent == g && o.name == name {
			o.parent = nil
		}
	}
	g.file.touch()
	return nil
}

// Move relinks the member called name into dst as newName. Renaming within
// one group keeps the member's position; moving elsewhere appends it.
func (g *Group) Move(name string, dst *Group, newName string) error {
	if err := g.file.writable(); err != nil {
		return err
	}
	if dst.file != g.file {
		return errors.Wrap(ErrUnsupported, "move across files")
	}
	if err := validLinkName(newName); err != nil {
		return err
	}
	i := g.index(name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "%q in %s", name, g.Path())
	}
	l := g.links[i]
	if dst == g && newName == name {
		return nil
	}
	if dst.Has(newName) {
		return errors.Wrapf(ErrExists, "%q in %s", newName, dst.Path())
	}
	if sub, ok := l.obj.(*Group); ok {
		for p := dst; p != nil; p = p.parent {
			if p == sub {
				return errors.Wrapf(ErrInvalidName, "cannot move %s into itself", sub.Path())
			}
		}
	}

	if dst == g {
		l.Name = newName
		g.file.touch()
	} else {
		g.links = append(g.links[:i], g.links[i+1:]...)
		l.Name = newName
		dst.add(l)
	}
	if l.obj != nil {
		if o := l.obj.base(); o.parent == g && o.name == name {
			o.parent, o.name = dst, newName
		}
	}
	return nil
}

// Resolve returns the object the member called name points to, following
// soft and external links.
func (g *Group) Resolve(name string) (Object, error) {
	l, ok := g.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q in %s", name, g.Path())
	}
	return g.file.resolver().link(g, l)
}

// Open resolves a path, absolute from the file's root or relative to g,
// following links at every component.
func (g *Group) Open(path string) (Object, error) {
	start := g
	if strings.HasPrefix(path, "/") {
		start = g.file.root
	}
	return g.file.resolver().walk(start, path)
}

// OpenGroup is Open restricted to groups.
func (g *Group) OpenGroup(path string) (*Group, error) {
	obj, err := g.Open(path)
	if err != nil {
		return nil, err
	}
	sub, ok := obj.(*Group)
	if !ok {
		return nil, errors.Wrapf(ErrNotGroup, "%s", path)
	}
	return sub, nil
}

// OpenDataset is Open restricted to datasets.
func (g *Group) OpenDataset(path string) (*Dataset, error) {
	obj, err := g.Open(path)
	if err != nil {
		return nil, err
	}
	d, ok := obj.(*Dataset)
	if !ok {
		return nil, errors.Wrapf(ErrNotDataset, "%s", path)
	}
	return d, nil
}

// resolver follows link chains up to a fixed depth, refusing to visit the
// same link twice.
type resolver struct {
	depth int
	max   int
	seen  map[string]bool
}

func (r *resolver) link(g *Group, l *Link) (Object, error) {
	if l.Kind == LinkHard {
		return l.obj, nil
	}
	key := g.file.path + "\x00" + JoinPath(g.Path(), l.Name)
	r.depth++
	if r.depth > r.max || r.seen[key] {
		return nil, errors.Wrapf(ErrLinkDepth, "at %s", JoinPath(g.Path(), l.Name))
	}
	r.seen[key] = true

	switch l.Kind {
	case LinkSoft:
		start := g
		if strings.HasPrefix(l.Target, "/") {
			start = g.file.root
		}
		return r.walk(start, l.Target)
	case LinkExternal:
		ext, err := g.file.external(l.File)
		if err != nil {
			return nil, err
		}
		return r.walk(ext.root, l.Target)
	}
	return nil, errors.Wrapf(ErrUnsupported, "link kind %s", l.Kind)
}

func (r *resolver) walk(g *Group, path string) (Object, error) {
	var cur Object = g
	for _, name := range SplitPath(path) {
		if name == "." {
			continue
		}
		grp, ok := cur.(*Group)
		if !ok {
			return nil, errors.Wrapf(ErrNotGroup, "%s in %s", cur.Path(), path)
		}
		l, ok := grp.Lookup(name)
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "%q in %s", name, path)
		}
		next, err := r.link(grp, l)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
