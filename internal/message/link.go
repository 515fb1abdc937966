package message

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-adfh/internal/binary"
)

// LinkKind identifies hard, soft and external links.
type LinkKind uint8

const (
	LinkHard     LinkKind = 0
	LinkSoft     LinkKind = 1
	LinkExternal LinkKind = 64
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
	return fmt.Sprintf("link(%d)", uint8(k))
}

// Link is a link message (type 0x0006), one per group member in compact
// link storage.
type Link struct {
	Kind          LinkKind
	Name          string
	CreationOrder uint64
	HasOrder      bool

	Address uint64 // hard
	Target  string // soft, or path inside File for external
	File    string // external
}

func (m *Link) Type() Type { return TypeLink }

func decodeLink(d *binary.Decoder) (*Link, error) {
	if v := d.Uint8(); v != 1 {
		return nil, fmt.Errorf("%w: link version %d", ErrUnsupported, v)
	}
	flags := d.Uint8()
	m := &Link{}
	if flags&0x08 != 0 {
		m.Kind = LinkKind(d.Uint8())
	}
	if flags&0x04 != 0 {
		m.CreationOrder = d.Uint64()
		m.HasOrder = true
	}
	if flags&0x10 != 0 {
		d.Uint8() // name charset
	}
	n := d.UintN(1 << (flags & 0x03))
	m.Name = string(d.Bytes(int(n)))

	switch m.Kind {
	case LinkHard:
		m.Address = d.Offset()
	case LinkSoft:
		m.Target = string(d.Bytes(int(d.Uint16())))
	case LinkExternal:
		raw := d.Bytes(int(d.Uint16()))
		if len(raw) < 1 {
			return nil, fmt.Errorf("external link value empty")
		}
		parts := strings.SplitN(string(raw[1:]), "\x00", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("external link value malformed")
		}
		m.File, m.Target = parts[0], parts[1]
	default:
		return nil, fmt.Errorf("%w: link type %d", ErrUnsupported, m.Kind)
	}
	return m, nil
}

func (m *Link) Encode(e *binary.Encoder) {
	var flags uint8
	if len(m.Name) > 0xFF {
		flags |= 0x01
	}
	if m.HasOrder {
		flags |= 0x04
	}
	if m.Kind != LinkHard {
		flags |= 0x08
	}
	e.PutUint8(1)
	e.PutUint8(flags)
	if m.Kind != LinkHard {
		e.PutUint8(uint8(m.Kind))
	}
	if m.HasOrder {
		e.PutUint64(m.CreationOrder)
	}
	e.PutUintN(uint64(len(m.Name)), 1<<(flags&0x03))
	e.PutBytes([]byte(m.Name))

	switch m.Kind {
	case LinkHard:
		e.PutOffset(m.Address)
	case LinkSoft:
		e.PutUint16(uint16(len(m.Target)))
		e.PutBytes([]byte(m.Target))
	case LinkExternal:
		e.PutUint16(uint16(1 + len(m.File) + 1 + len(m.Target) + 1))
		e.PutUint8(0)
		e.PutCString(m.File)
		e.PutCString(m.Target)
	}
}

// LinkInfo is the link info message (type 0x0002) of a new-style group.
type LinkInfo struct {
	TrackOrder bool
	IndexOrder bool
	MaxOrder   uint64

	HeapAddress      uint64
	NameIndexAddress uint64
	OrderIndexAddr   uint64
}

func (m *LinkInfo) Type() Type { return TypeLinkInfo }

// Dense reports whether links live in a fractal heap rather than in link
// messages.
func (m *LinkInfo) Dense(sizes binary.Sizes) bool {
	return !sizes.IsUndefined(m.HeapAddress)
}

func decodeLinkInfo(d *binary.Decoder) (*LinkInfo, error) {
	if v := d.Uint8(); v != 0 {
		return nil, fmt.Errorf("%w: link info version %d", ErrUnsupported, v)
	}
	flags := d.Uint8()
	m := &LinkInfo{TrackOrder: flags&0x01 != 0, IndexOrder: flags&0x02 != 0}
	if m.TrackOrder {
		m.MaxOrder = d.Uint64()
	}
	m.HeapAddress = d.Offset()
	m.NameIndexAddress = d.Offset()
	if m.IndexOrder {
		m.OrderIndexAddr = d.Offset()
	}
	return m, nil
}

// Encode writes compact link storage: both index addresses undefined.
func (m *LinkInfo) Encode(e *binary.Encoder) {
	var flags uint8
	if m.TrackOrder {
		flags |= 0x01
	}
	e.PutUint8(0)
	e.PutUint8(flags)
	if m.TrackOrder {
		e.PutUint64(m.MaxOrder)
	}
	e.PutUndefined()
	e.PutUndefined()
}

// GroupInfo is the group info message (type 0x000A). The writer always
// emits the default form.
type GroupInfo struct{}

func (m *GroupInfo) Type() Type { return TypeGroupInfo }

func (m *GroupInfo) Encode(e *binary.Encoder) {
	e.PutUint8(0)
	e.PutUint8(0)
}
