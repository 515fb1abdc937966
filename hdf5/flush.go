package hdf5

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/internal/alloc"
	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/layout"
	"github.com/robert-malhotra/go-adfh/internal/message"
	ohdr "github.com/robert-malhotra/go-adfh/internal/object"
	"github.com/robert-malhotra/go-adfh/internal/superblock"
)

// writer lays out a fresh image. Children are placed before their parents
// so every hard link address is known when the parent header is encoded.
type writer struct {
	a       *alloc.Allocator
	sizes   binary.Sizes
	opts    *options
	placed  map[Object]uint64
	pending map[Object]bool
	objects int
}

func (f *File) flushLocked() error {
	sb := superblock.New()
	w := &writer{
		a:       alloc.New(uint64(sb.Size())),
		sizes:   sb.Sizes(),
		opts:    f.opts,
		placed:  map[Object]uint64{},
		pending: map[Object]bool{},
	}
	root, err := w.place(f.root)
	if err != nil {
		return errors.Wrapf(err, "flushing %s", f.path)
	}
	sb.RootAddress = root
	sb.EOFAddress = w.a.EOF()

	e := binary.NewEncoder(w.sizes)
	sb.Encode(e)
	if err := w.a.WriteAt(e.Bytes(), 0); err != nil {
		return errors.Wrap(err, "writing superblock")
	}
	if err := w.a.Validate(); err != nil {
		return errors.Wrapf(err, "flushing %s", f.path)
	}

	image := w.a.Image()
	if _, err := f.fh.WriteAt(image, 0); err != nil {
		return errors.Wrapf(err, "writing %s", f.path)
	}
	if err := f.fh.Truncate(int64(len(image))); err != nil {
		return errors.Wrapf(err, "truncating %s", f.path)
	}
	if err := f.fh.Sync(); err != nil {
		return errors.Wrapf(err, "syncing %s", f.path)
	}

	f.sb, f.size, f.dirty = sb, int64(len(image)), false
	f.log.WithFields(logrus.Fields{"bytes": len(image), "objects": w.objects}).Debug("flushed")
	return nil
}

func (w *writer) place(obj Object) (uint64, error) {
	if addr, ok := w.placed[obj]; ok {
		return addr, nil
	}
	if w.pending[obj] {
		return 0, errors.Wrapf(ErrUnsupported, "hard link cycle through %s", obj.Path())
	}
	w.pending[obj] = true
	defer delete(w.pending, obj)

	var (
		msgs []message.Encoder
		err  error
	)
	switch o := obj.(type) {
	case *Group:
		msgs, err = w.groupMessages(o)
	case *Dataset:
		msgs = w.datasetMessages(o)
	default:
		err = errors.Wrapf(ErrUnsupported, "object %T", obj)
	}
	if err != nil {
		return 0, err
	}
	for _, a := range obj.base().attrs {
		msgs = append(msgs, a.message())
	}

	e := binary.NewEncoder(w.sizes)
	ohdr.Encode(e, msgs, w.opts.headerPadding)
	addr := w.a.Place(e.Bytes(), 8, "header "+obj.Path())
	w.placed[obj] = addr
	w.objects++
	return addr, nil
}

func (w *writer) groupMessages(g *Group) ([]message.Encoder, error) {
	msgs := []message.Encoder{
		&message.LinkInfo{TrackOrder: true, MaxOrder: g.maxOrder},
		&message.GroupInfo{},
	}
	for _, l := range g.links {
		m := &message.Link{Name: l.Name, CreationOrder: l.order, HasOrder: true}
		switch l.Kind {
		case LinkHard:
			addr, err := w.place(l.obj)
			if err != nil {
				return nil, err
			}
			m.Kind, m.Address = message.LinkHard, addr
		case LinkSoft:
			m.Kind, m.Target = message.LinkSoft, l.Target
		case LinkExternal:
			m.Kind, m.Target, m.File = message.LinkExternal, l.Target, l.File
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (w *writer) datasetMessages(d *Dataset) []message.Encoder {
	space := message.NewSimple(d.dims)
	if d.null {
		space = &message.Dataspace{Version: 2, Class: message.SpaceNull}
	}
	lay := layout.Plan(d.data, w.opts.compactThreshold, w.a, "data "+d.Path())
	fill := &message.FillValue{Version: 3, AllocTime: message.AllocLate, WriteTime: message.FillWriteIfSet}
	if lay.Class == message.LayoutCompact {
		fill.AllocTime = message.AllocEarly
	}
	return []message.Encoder{space, d.mt, fill, lay}
}
