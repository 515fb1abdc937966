package hdf5

import "github.com/pkg/errors"

// SkipGroup can be returned by a WalkFunc to leave a group's members
// unvisited.
var SkipGroup = errors.New("hdf5: skip group")

// WalkFunc is called for every link below the walk's start. path is the
// link's absolute path and depth counts from 1 for direct members.
type WalkFunc func(path string, depth int, l *Link) error

// Walk visits the members of g depth-first in creation order, descending
// through hard links to groups. Soft and external links are reported but
// not followed, and a group reachable twice is descended into once.
//
// Example:
//
//	hdf5.Walk(f.Root(), func(path string, depth int, l *hdf5.Link) error {
//	    if strings.HasPrefix(l.Name, " ") {
//	        return hdf5.SkipGroup
//	    }
//	    fmt.Println(path, l.Kind)
//	    return nil
//	})
func Walk(g *Group, fn WalkFunc) error {
	seen := map[*Group]bool{g: true}
	return walk(g, g.Path(), 1, fn, seen)
}

func walk(g *Group, dir string, depth int, fn WalkFunc, seen map[*Group]bool) error {
	for _, l := range g.Members() {
		p := JoinPath(dir, l.Name)
		if err := fn(p, depth, l); err == SkipGroup {
			continue
		} else if err != nil {
			return err
		}
		sub, isGroup := l.obj.(*Group)
		if !isGroup || seen[sub] {
			continue
		}
		seen[sub] = true
		if err := walk(sub, p, depth+1, fn, seen); err != nil {
			return err
		}
	}
	return nil
}
