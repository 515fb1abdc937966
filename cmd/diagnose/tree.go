package main

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/robert-malhotra/go-adfh/adfh"
)

func runTree(e *env, maxDepth int) error {
	nameColor.Fprintln(color.Output, "/")
	return printChildren(e, e.root, "", 1, maxDepth)
}

func printChildren(e *env, n *adfh.Node, indent string, depth, maxDepth int) error {
	if maxDepth > 0 && depth > maxDepth {
		return nil
	}
	count, err := e.s.NumberOfChildren(n)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	kids, err := e.s.ChildrenIDs(n, 0, count)
	if err != nil {
		return err
	}
	for i, k := range kids {
		last := i == len(kids)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		if err := printNode(e, k, indent+branch); err != nil {
			return err
		}
		if length, _ := e.s.IsLink(k); length == 0 {
			if err := printChildren(e, k, indent+next, depth+1, maxDepth); err != nil {
				return err
			}
		}
		e.s.Release(k)
	}
	return nil
}

func printNode(e *env, n *adfh.Node, prefix string) error {
	name, err := e.s.GetName(n)
	if err != nil {
		return err
	}
	out("%s", prefix)
	nameColor.Fprint(color.Output, name)

	if length, _ := e.s.IsLink(n); length > 0 {
		file, path, err := e.s.GetLinkPath(n)
		if err != nil {
			return err
		}
		target := path
		if file != "" {
			target = file + ":" + path
		}
		linkColor.Fprintf(color.Output, " -> %s\n", target)
		return nil
	}

	typ, err := e.s.GetDataType(n)
	if err != nil {
		return err
	}
	label, _ := e.s.GetLabel(n)
	out(" ")
	typeColor.Fprint(color.Output, typ)
	if dims, err := e.s.GetDimensionValues(n); err == nil {
		out("%s", formatDims(dims))
	}
	if label != "" {
		out("  %s", label)
	}
	out("\n")
	return nil
}

func formatDims(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, "x") + ")"
}
