package hdf5

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Object is a group or a dataset.
type Object interface {
	Name() string
	Path() string
	ObjectID() uuid.UUID
	File() *File
	Parent() *Group
	Attrs() []*Attribute
	Attr(name string) (*Attribute, bool)
	CreateAttr(name string, t Datatype, dims []uint64) (*Attribute, error)
	DeleteAttr(name string) error

	base() *object
}

// object is the state shared by groups and datasets. An object reachable
// through several hard links remembers the first one as its name and
// parent.
type object struct {
	file   *File
	id     uuid.UUID
	name   string
	parent *Group
	attrs  []*Attribute
}

func newObject(f *File, name string, parent *Group) object {
	return object{file: f, id: uuid.New(), name: name, parent: parent}
}

func (o *object) base() *object { return o }

// Name is the link name the object was reached through; "/" for the root.
func (o *object) Name() string { return o.name }

// ObjectID identifies the object while its file is open. Two handles
// refer to the same object exactly when their IDs are equal.
func (o *object) ObjectID() uuid.UUID { return o.id }

// File returns the file holding the object.
func (o *object) File() *File { return o.file }

// Parent is the group the object was reached from, nil for the root and
// for unlinked objects.
func (o *object) Parent() *Group { return o.parent }

// Path is the absolute path of the object, or "" once it has been
// unlinked.
func (o *object) Path() string {
	if o.parent == nil {
		if o.file != nil && o.file.root != nil && o.file.root.base() == o {
			return "/"
		}
		return ""
	}
	dir := o.parent.Path()
	if dir == "" {
		return ""
	}
	return JoinPath(dir, o.name)
}

// Attrs lists the attributes in creation order.
func (o *object) Attrs() []*Attribute {
	return append([]*Attribute(nil), o.attrs...)
}

// Attr looks up an attribute by name.
func (o *object) Attr(name string) (*Attribute, bool) {
	for _, a := range o.attrs {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// CreateAttr adds a zero-filled attribute. dims nil makes it scalar.
func (o *object) CreateAttr(name string, t Datatype, dims []uint64) (*Attribute, error) {
	if err := o.file.writable(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.Wrap(ErrInvalidName, "empty attribute name")
	}
	if _, ok := o.Attr(name); ok {
		return nil, errors.Wrapf(ErrExists, "attribute %q", name)
	}
	mt, err := t.message()
	if err != nil {
		return nil, errors.Wrapf(err, "attribute %q", name)
	}
	a := &Attribute{
		owner: o,
		name:  name,
		mt:    mt,
		dtype: t,
		dims:  append([]uint64(nil), dims...),
		data:  make([]byte, elements(dims)*uint64(t.Size)),
	}
	o.attrs = append(o.attrs, a)
	o.file.touch()
	return a, nil
}

// DeleteAttr removes an attribute.
func (o *object) DeleteAttr(name string) error {
	if err := o.file.writable(); err != nil {
		return err
	}
	for i, a := range o.attrs {
		if a.name == name {
			o.attrs = append(o.attrs[:i], o.attrs[i+1:]...)
			o.file.touch()
			return nil
		}
	}
	return errors.Wrapf(ErrNotFound, "attribute %q", name)
}

// elements is the number of elements of a space; nil dims is a scalar.
func elements(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}
