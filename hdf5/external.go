package hdf5

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// external returns the file an external link names, opened read-only and
// cached by absolute path. Relative names are tried against the linking
// file's directory first, then as given. Expired entries are closed here,
// on the caller's goroutine; the cache runs no janitor.
func (f *File) external(name string) (*File, error) {
	f.externals.DeleteExpired()

	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = []string{filepath.Join(filepath.Dir(f.path), name), name}
	}

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if abs == f.abs {
			return f, nil
		}
		if v, ok := f.externals.Get(abs); ok {
			f.externals.SetDefault(abs, v)
			return v.(*File), nil
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		ext, err := Open(abs,
			WithLogger(f.opts.log),
			WithLinkDepth(f.opts.linkDepth),
			WithExternalTTL(f.opts.externalTTL))
		if err != nil {
			return nil, errors.Wrapf(ErrExternalFile, "%s: %v", abs, err)
		}
		f.externals.SetDefault(abs, ext)
		f.log.WithField("external", abs).Debug("opened external file")
		return ext, nil
	}
	return nil, errors.Wrapf(ErrExternalFile, "%s not found", name)
}
