package main

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

func runRaw(path string, logger *logrus.Logger) error {
	f, err := hdf5.Open(path, hdf5.WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		return err
	}
	defer f.Close()

	sb := f.Superblock()
	field("superblock", "v"+humanize.Comma(int64(sb.Version)))
	field("file size", humanize.Bytes(uint64(f.Size())))
	field("id", f.ID().String())
	printAttrs(f.Root(), "")

	return hdf5.Walk(f.Root(), func(p string, depth int, l *hdf5.Link) error {
		indent := strings.Repeat("  ", depth)
		out("%s", indent)
		nameColor.Fprintf(color.Output, "%q", l.Name)
		switch l.Kind {
		case hdf5.LinkSoft:
			linkColor.Fprintf(color.Output, " soft -> %s\n", l.Target)
			return nil
		case hdf5.LinkExternal:
			linkColor.Fprintf(color.Output, " external -> %s:%s\n", l.File, l.Target)
			return nil
		}
		switch obj := l.Object().(type) {
		case *hdf5.Group:
			out(" group\n")
		case *hdf5.Dataset:
			out(" dataset ")
			typeColor.Fprint(color.Output, obj.Type())
			out(" %v %s\n", obj.Dims(), humanize.Bytes(uint64(obj.Size())))
		}
		printAttrs(l.Object(), indent+"  ")
		return nil
	})
}

func printAttrs(obj hdf5.Object, indent string) {
	if obj == nil {
		return
	}
	for _, a := range obj.Attrs() {
		out("%s@", indent)
		typeColor.Fprint(color.Output, a.Name())
		if s, err := a.String(); err == nil {
			out(" = %q\n", s)
		} else if v, err := a.Int32(); err == nil {
			out(" = %d\n", v)
		} else {
			out(" %s %v\n", a.Type(), a.Dims())
		}
	}
}
