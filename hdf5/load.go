package hdf5

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/internal/binary"
	"github.com/robert-malhotra/go-adfh/internal/btree"
	"github.com/robert-malhotra/go-adfh/internal/heap"
	"github.com/robert-malhotra/go-adfh/internal/layout"
	"github.com/robert-malhotra/go-adfh/internal/message"
	ohdr "github.com/robert-malhotra/go-adfh/internal/object"
	"github.com/robert-malhotra/go-adfh/internal/superblock"
)

// loader decodes an image into an object tree. Objects are memoized by
// header address so shared hard links yield one object.
type loader struct {
	f     *File
	image []byte
	sizes binary.Sizes
	memo  map[uint64]Object
}

func (f *File) load(image []byte) error {
	sb, err := superblock.Read(image)
	if err != nil {
		if errors.Is(err, superblock.ErrNotHDF5) {
			return errors.Wrapf(ErrNotHDF5, "%s", f.path)
		}
		return errors.Wrapf(err, "%s", f.path)
	}
	if sb.BaseAddress > uint64(len(image)) {
		return errors.Errorf("%s: base address %d beyond end of file", f.path, sb.BaseAddress)
	}

	l := &loader{
		f:     f,
		image: image[sb.BaseAddress:],
		sizes: sb.Sizes(),
		memo:  map[uint64]Object{},
	}
	obj, err := l.object(sb.RootAddress, "/", nil)
	if err != nil {
		return errors.Wrapf(err, "%s", f.path)
	}
	root, ok := obj.(*Group)
	if !ok {
		return errors.Wrapf(ErrNotGroup, "%s: root object", f.path)
	}
	f.sb, f.root, f.size = sb, root, int64(len(image))
	return nil
}

func (l *loader) object(addr uint64, name string, parent *Group) (Object, error) {
	if obj, ok := l.memo[addr]; ok {
		return obj, nil
	}
	h, err := ohdr.Read(l.image, l.sizes, addr)
	if err != nil {
		return nil, err
	}
	switch {
	case h.IsDataset():
		return l.dataset(h, name, parent)
	case h.IsGroup():
		return l.group(h, name, parent)
	}
	return nil, errors.Wrapf(ErrUnsupported, "object at %d is neither group nor dataset", addr)
}

func (l *loader) group(h *ohdr.Header, name string, parent *Group) (*Group, error) {
	g := newGroup(l.f, name, parent)
	l.memo[h.Address] = g

	if st, ok := h.First(message.TypeSymbolTable).(*message.SymbolTable); ok {
		if err := l.symbolTable(g, st); err != nil {
			return nil, err
		}
	} else if err := l.linkMessages(g, h); err != nil {
		return nil, err
	}
	if err := l.attrs(&g.object, h); err != nil {
		return nil, err
	}
	return g, nil
}

func (l *loader) symbolTable(g *Group, st *message.SymbolTable) error {
	names, err := heap.ReadLocal(l.image, l.sizes, st.HeapAddress)
	if err != nil {
		return errors.Wrapf(err, "group %s", g.Path())
	}
	entries, err := btree.GroupEntries(l.image, l.sizes, st.BTreeAddress, names)
	if err != nil {
		return errors.Wrapf(err, "group %s", g.Path())
	}
	for _, e := range entries {
		link := &Link{Name: e.Name, order: g.maxOrder}
		if e.Soft {
			link.Kind, link.Target = LinkSoft, e.Target
		} else if link.obj, err = l.object(e.Address, e.Name, g); err != nil {
			return err
		}
		g.links = append(g.links, link)
		g.maxOrder++
	}
	return nil
}

func (l *loader) linkMessages(g *Group, h *ohdr.Header) error {
	if li, ok := h.First(message.TypeLinkInfo).(*message.LinkInfo); ok {
		if li.Dense(l.sizes) {
			return errors.Wrapf(ErrUnsupported, "group %s uses dense link storage", g.Path())
		}
		g.maxOrder = li.MaxOrder
	}

	var msgs []*message.Link
	ordered := true
	for _, m := range h.All(message.TypeLink) {
		lm := m.(*message.Link)
		ordered = ordered && lm.HasOrder
		msgs = append(msgs, lm)
	}
	if ordered {
		sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreationOrder < msgs[j].CreationOrder })
	}

	for i, lm := range msgs {
		link := &Link{Name: lm.Name, order: uint64(i)}
		if ordered {
			link.order = lm.CreationOrder
		}
		switch lm.Kind {
		case message.LinkHard:
			obj, err := l.object(lm.Address, lm.Name, g)
			if err != nil {
				return err
			}
			link.obj = obj
		case message.LinkSoft:
			link.Kind, link.Target = LinkSoft, lm.Target
		case message.LinkExternal:
			link.Kind, link.Target, link.File = LinkExternal, lm.Target, lm.File
		default:
			return errors.Wrapf(ErrUnsupported, "link %q of kind %s", lm.Name, lm.Kind)
		}
		g.links = append(g.links, link)
		if link.order >= g.maxOrder {
			g.maxOrder = link.order + 1
		}
	}
	return nil
}

func (l *loader) dataset(h *ohdr.Header, name string, parent *Group) (*Dataset, error) {
	ds, ok := h.First(message.TypeDataspace).(*message.Dataspace)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "dataset %q: shared or missing dataspace", name)
	}
	dt, ok := h.First(message.TypeDatatype).(*message.Datatype)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "dataset %q: committed or missing datatype", name)
	}
	lay, ok := h.First(message.TypeDataLayout).(*message.DataLayout)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "dataset %q: layout", name)
	}
	if h.First(message.TypeFilterPipe) != nil {
		return nil, errors.Wrapf(ErrUnsupported, "dataset %q: filtered data", name)
	}

	size := ds.NumElements() * uint64(dt.Size)
	data, err := layout.Load(l.image, l.sizes, lay, size)
	if err != nil {
		if errors.Is(err, message.ErrUnsupported) {
			return nil, errors.Wrapf(ErrUnsupported, "dataset %q: %v", name, err)
		}
		return nil, errors.Wrapf(err, "dataset %q", name)
	}
	if lay.Class == message.LayoutContiguous && l.sizes.IsUndefined(lay.Address) {
		if fv, ok := h.First(message.TypeFillValue).(*message.FillValue); ok && fv.Defined && len(fv.Value) == int(dt.Size) {
			for off := 0; off+len(fv.Value) <= len(data); off += len(fv.Value) {
				copy(data[off:], fv.Value)
			}
		}
	}

	mt := littleEndian(dt, data)
	d := &Dataset{
		object: newObject(l.f, name, parent),
		mt:     mt,
		dtype:  datatypeOf(mt),
		null:   ds.Class == message.SpaceNull,
		data:   data,
	}
	if ds.Class == message.SpaceSimple {
		d.dims = append([]uint64(nil), ds.Dims...)
	}
	l.memo[h.Address] = d
	return d, l.attrs(&d.object, h)
}

func (l *loader) attrs(o *object, h *ohdr.Header) error {
	if u, ok := h.First(message.TypeAttrInfo).(*message.Unknown); ok && l.denseAttrs(u.Data) {
		return errors.Wrapf(ErrUnsupported, "%s: dense attribute storage", o.name)
	}
	for _, m := range h.All(message.TypeAttribute) {
		am := m.(*message.Attribute)
		data := append([]byte(nil), am.Data...)
		mt := littleEndian(am.Dtype, data)
		a := &Attribute{owner: o, name: am.Name, mt: mt, dtype: datatypeOf(mt), data: data}
		if am.Space.Class == message.SpaceSimple {
			a.dims = append([]uint64(nil), am.Space.Dims...)
		}
		o.attrs = append(o.attrs, a)
	}
	return nil
}

// denseAttrs reads the fractal heap address of an attribute info message.
func (l *loader) denseAttrs(raw []byte) bool {
	d := binary.NewDecoder(raw, l.sizes)
	d.Uint8()
	if flags := d.Uint8(); flags&0x01 != 0 {
		d.Uint16()
	}
	addr := d.Offset()
	return d.Err() == nil && !l.sizes.IsUndefined(addr)
}
