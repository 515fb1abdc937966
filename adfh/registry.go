package adfh

import (
	"github.com/google/uuid"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

//go:generate mockgen -source=registry.go -destination=mock_store_test.go -package=adfh

// store is an open container file as the registry sees it.
type store interface {
	ID() uuid.UUID
	Path() string
	ReadOnly() bool
	Root() *hdf5.Group
	Flush() error
	Close() error
}

var _ store = (*hdf5.File)(nil)

// registry is the bounded table of open files. The table is allocated on
// the first add and dropped again when the last file is removed.
type registry struct {
	capacity int
	slots    []store
	used     int
}

func newRegistry(capacity int) *registry {
	return &registry{capacity: capacity}
}

func (r *registry) initialized() bool { return r.slots != nil }

func (r *registry) len() int { return r.used }

func (r *registry) add(st store) (int, error) {
	if r.slots == nil {
		r.slots = make([]store, r.capacity)
	}
	for i, s := range r.slots {
		if s == nil {
			r.slots[i] = st
			r.used++
			return i, nil
		}
	}
	return -1, fail(TooManyFilesOpened, nil)
}

// find returns the slot holding the file with the given identity.
func (r *registry) find(id uuid.UUID) (int, store, bool) {
	for i, s := range r.slots {
		if s != nil && s.ID() == id {
			return i, s, true
		}
	}
	return -1, nil, false
}

// byPath returns the slot holding a file opened under path.
func (r *registry) byPath(path string) (store, bool) {
	for _, s := range r.slots {
		if s != nil && s.Path() == path {
			return s, true
		}
	}
	return nil, false
}

func (r *registry) remove(slot int) {
	if slot < 0 || slot >= len(r.slots) || r.slots[slot] == nil {
		return
	}
	r.slots[slot] = nil
	r.used--
	if r.used == 0 {
		r.slots = nil
	}
}

// each calls fn for every open file.
func (r *registry) each(fn func(slot int, st store)) {
	for i, s := range r.slots {
		if s != nil {
			fn(i, s)
		}
	}
}
