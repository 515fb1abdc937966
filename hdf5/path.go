package hdf5

import (
	"strings"

	"github.com/pkg/errors"
)

// SplitPath breaks a path into its link names, ignoring empty components:
// "/a//b/" yields ["a", "b"] and "/" yields none.
func SplitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CleanPath returns p as an absolute path without empty components.
func CleanPath(p string) string {
	return "/" + strings.Join(SplitPath(p), "/")
}

// JoinPath appends name to the group path dir.
func JoinPath(dir, name string) string {
	if dir == "/" || dir == "" {
		return "/" + name
	}
	return dir + "/" + name
}

// ParseAttrPath splits "/group/object@attr" into the object path and the
// attribute name. "@attr" addresses the root.
func ParseAttrPath(p string) (objectPath, attr string, err error) {
	i := strings.LastIndexByte(p, '@')
	if i < 0 {
		return "", "", errors.Wrapf(ErrInvalidName, "%q has no @attribute part", p)
	}
	if attr = p[i+1:]; attr == "" {
		return "", "", errors.Wrapf(ErrInvalidName, "%q names no attribute", p)
	}
	return CleanPath(p[:i]), attr, nil
}

func validLinkName(name string) error {
	if name == "" || name == "." || strings.ContainsRune(name, '/') {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}
