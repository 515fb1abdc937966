package main

import (
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/adfh"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

func lookup(e *env, path string) (*adfh.Node, error) {
	if path == "" {
		return nil, errors.New("missing PATH argument")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return e.s.GetNodeID(e.root, path)
}

func runInfo(e *env, path string) error {
	n, err := lookup(e, path)
	if err != nil {
		return err
	}
	defer e.s.Release(n)

	name, err := e.s.GetName(n)
	if err != nil {
		return err
	}
	field("name", name)

	if length, err := e.s.IsLink(n); err != nil {
		return err
	} else if length > 0 {
		file, target, err := e.s.GetLinkPath(n)
		if err != nil {
			return err
		}
		if file == "" {
			file = "(this file)"
		}
		field("link file", file)
		field("link path", target)
	}

	label, err := e.s.GetLabel(n)
	if err != nil {
		return err
	}
	field("label", label)
	typ, err := e.s.GetDataType(n)
	if err != nil {
		return err
	}
	field("type", typ)

	rank, err := e.s.GetNumberOfDimensions(n)
	if err != nil && adfh.CodeOf(err) != adfh.NoData {
		return err
	}
	if rank > 0 {
		dims, err := e.s.GetDimensionValues(n)
		if err != nil {
			return err
		}
		field("dimensions", formatDims(dims))
		if c, err := dtype.Parse(typ); err == nil {
			total := uint64(c.Size())
			for _, d := range dims {
				total *= uint64(d)
			}
			field("data size", humanize.Bytes(total))
		}
	}

	count, err := e.s.NumberOfChildren(n)
	if err != nil {
		return err
	}
	field("children", humanize.Comma(int64(count)))
	return nil
}

func field(key, value string) {
	nameColor.Fprintf(color.Output, "%-11s", key)
	out(" %s\n", value)
}

func runCat(e *env, path string, limit int) error {
	n, err := lookup(e, path)
	if err != nil {
		return err
	}
	defer e.s.Release(n)

	typ, err := e.s.GetDataType(n)
	if err != nil {
		return err
	}
	c, err := dtype.Parse(typ)
	if err != nil {
		return err
	}
	raw, err := e.s.ReadAllData(n)
	if err != nil {
		return err
	}
	if c == dtype.C1 {
		if i := strings.IndexByte(string(raw), 0); i >= 0 {
			raw = raw[:i]
		}
		out("%s\n", raw)
		return nil
	}
	values := dtype.Values(c, raw)
	shown := values
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	out("%s\n", strings.Join(shown, " "))
	if len(shown) < len(values) {
		typeColor.Fprintf(color.Output, "... %s more values\n", humanize.Comma(int64(len(values)-len(shown))))
	}
	return nil
}

func runVersion(e *env) error {
	version, err := e.s.DatabaseVersion(e.root)
	if err != nil {
		return err
	}
	format, err := e.s.DatabaseGetFormat(e.root)
	if err != nil {
		return err
	}
	field("database", version)
	field("format", format)
	field("library", adfh.LibraryVersion())
	if st, err := os.Stat(e.path); err == nil {
		field("file size", humanize.Bytes(uint64(st.Size())))
		field("modified", humanize.Time(st.ModTime()))
	}
	return nil
}
