package adfh

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/hdf5"
	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// Open modes accepted by DatabaseOpen, case-insensitively.
const (
	ModeNew      = "NEW"
	ModeOld      = "OLD"
	ModeReadOnly = "READ_ONLY"
	ModeUnknown  = "UNKNOWN"
)

// Root node stamps.
const (
	rootName      = "HDF5 MotherNode"
	rootLabel     = "Root Node of HDF5 File"
	versionLength = 32
	libraryMajor  = 1
	libraryMinor  = 10
	libraryPatch  = 0
)

// LibraryVersion names the container format version files are written
// for.
func LibraryVersion() string {
	return fmt.Sprintf("HDF5 Version %d.%d.%d", libraryMajor, libraryMinor, libraryPatch)
}

func (s *Session) fileOptions() []hdf5.Option {
	return []hdf5.Option{
		hdf5.WithLogger(s.log),
		hdf5.WithLinkDepth(s.cfg.LinkDepth),
		hdf5.WithCompactThreshold(s.cfg.CompactThreshold),
		hdf5.WithExternalTTL(s.cfg.ExternalCacheTTL),
	}
}

// openMode resolves status against the state of the file at name.
func openMode(name, status string) (string, error) {
	mode := strings.ToUpper(strings.TrimSpace(status))
	_, statErr := os.Stat(name)
	exists := statErr == nil

	switch mode {
	case ModeUnknown:
		switch {
		case !exists:
			return ModeNew, nil
		case !writable(name):
			return ModeReadOnly, nil
		}
		return ModeOld, nil
	case ModeNew:
		if exists {
			return "", fail(RequestedNewFileExists, errors.Errorf("%s", name))
		}
	case ModeOld, ModeReadOnly:
		if !exists {
			return "", fail(RequestedOldFileNotFound, errors.Errorf("%s", name))
		}
	default:
		return "", fail(FileStatusNotRecognized, errors.Errorf("%q", status))
	}
	return mode, nil
}

func writable(name string) bool {
	fh, err := os.OpenFile(name, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	fh.Close()
	return true
}

// DatabaseOpen opens or creates the file name and returns its root node.
// status is NEW, OLD, READ_ONLY or UNKNOWN; format is accepted for
// compatibility and ignored, files are always written in the native
// format.
func (s *Session) DatabaseOpen(name, status, format string) (root *Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseOpen", err) }()

	if name == "" {
		return nil, fail(NullStringPointer, nil)
	}
	mode, err := openMode(name, status)
	if err != nil {
		return nil, err
	}
	if s.reg.len() >= s.cfg.MaxFiles {
		return nil, fail(TooManyFilesOpened, nil)
	}

	var f *hdf5.File
	switch mode {
	case ModeNew:
		if f, err = hdf5.Create(name, s.fileOptions()...); err != nil {
			return nil, fail(FileOpenError, err)
		}
		if err := stampRoot(f.Root()); err != nil {
			s.abandon(f)
			return nil, err
		}
	default:
		if !hdf5.IsHDF5(name) {
			return nil, fail(ErrNotHDF5File, errors.Errorf("%s", name))
		}
		if mode == ModeReadOnly {
			f, err = hdf5.Open(name, s.fileOptions()...)
		} else {
			f, err = hdf5.OpenReadWrite(name, s.fileOptions()...)
		}
		if err != nil {
			return nil, fail(FileOpenError, err)
		}
		if mode != ModeReadOnly {
			if err := s.migrate(f.Root()); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	slot, err := s.reg.add(f)
	if err != nil {
		if mode == ModeNew {
			s.abandon(f)
		} else {
			f.Close()
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"file": name, "mode": mode, "slot": slot}).Debug("database opened")
	return &Node{g: f.Root()}, nil
}

// abandon closes a file a failed NEW open created and removes it along
// with its lock file.
func (s *Session) abandon(f *hdf5.File) {
	f.Close()
	for _, p := range []string{f.Path(), f.Path() + ".lock"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.log.WithError(err).WithField("file", p).Warn("removing abandoned file")
		}
	}
}

// stampRoot is replaced in tests.
var stampRoot = initRoot

// initRoot stamps the root of a new file.
func initRoot(root *hdf5.Group) error {
	if err := stamp(root, rootName, rootLabel, dtype.MT); err != nil {
		return err
	}
	if err := writeText(root, hiddenFormat, dtype.NativeFormat(), 0); err != nil {
		return err
	}
	return writeText(root, hiddenVersion, LibraryVersion(), versionLength+1)
}

// slotOf finds the registry entry of the file holding node.
func (s *Session) slotOf(node *Node) (int, store, error) {
	g, err := group(node)
	if err != nil {
		return -1, nil, err
	}
	slot, st, ok := s.reg.find(g.File().ID())
	if !ok {
		return -1, nil, fail(ErrFileIndex, errors.Errorf("%s", g.File().Path()))
	}
	return slot, st, nil
}

// DatabaseClose writes pending changes and closes the file holding root,
// which may be any node of that file.
func (s *Session) DatabaseClose(root *Node) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseClose", err) }()

	slot, st, err := s.slotOf(root)
	if err != nil {
		return err
	}
	s.reg.remove(slot)
	if err := st.Close(); err != nil {
		return fail(FileCloseError, err)
	}
	s.log.WithFields(logrus.Fields{"file": st.Path(), "open": s.reg.len()}).Debug("database closed")
	return nil
}

// Flush writes pending changes of the file holding node.
func (s *Session) Flush(node *Node) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("Flush", err) }()

	_, st, err := s.slotOf(node)
	if err != nil {
		return err
	}
	if st.ReadOnly() {
		return nil
	}
	if err := st.Flush(); err != nil {
		return fail(FflushError, err)
	}
	return nil
}

// CloseAll closes every open file, returning the first failure.
func (s *Session) CloseAll() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("CloseAll", err) }()

	var first error
	s.reg.each(func(slot int, st store) {
		s.reg.remove(slot)
		if cerr := st.Close(); cerr != nil && first == nil {
			first = fail(FileCloseError, cerr)
		}
	})
	return first
}

// GarbageCollection is kept for compatibility; there is nothing to
// collect.
func (s *Session) GarbageCollection(node *Node) error {
	return nil
}

// DatabaseValid reports whether name is a container file.
func (s *Session) DatabaseValid(name string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseValid", err) }()

	if name == "" {
		return fail(NullStringPointer, nil)
	}
	if !hdf5.IsHDF5(name) {
		return fail(ErrNotHDF5File, errors.Errorf("%s", name))
	}
	return nil
}

// DatabaseDelete removes the container file name from disk.
func (s *Session) DatabaseDelete(name string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseDelete", err) }()

	if !hdf5.IsHDF5(name) {
		return fail(ErrNotHDF5File, errors.Errorf("%s", name))
	}
	if _, ok := s.reg.byPath(name); ok {
		s.log.WithField("file", name).Warn("deleting a file that is still open")
	}
	if err := os.Remove(name); err != nil {
		return fail(ErrFileDelete, err)
	}
	return nil
}

// DatabaseGetFormat returns the machine format recorded in the file.
func (s *Session) DatabaseGetFormat(root *Node) (format string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseGetFormat", err) }()

	g, err := group(root)
	if err != nil {
		return "", err
	}
	format, _, err = readText(g.File().Root(), hiddenFormat)
	return format, err
}

// DatabaseSetFormat is not supported.
func (s *Session) DatabaseSetFormat(root *Node, format string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseSetFormat", err) }()

	return fail(ErrNotImplemented, nil)
}

// DatabaseVersion returns the version string recorded when the file was
// created.
func (s *Session) DatabaseVersion(root *Node) (version string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("DatabaseVersion", err) }()

	g, err := group(root)
	if err != nil {
		return "", err
	}
	r := g.File().Root()
	for _, name := range []string{hiddenVersion, hiddenLegacyStamp} {
		if r.Has(name) {
			version, _, err = readText(r, name)
			return version, err
		}
	}
	return "", fail(ErrDOpen, nil)
}

// OpenFiles is the number of files currently open in the session.
func (s *Session) OpenFiles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.len()
}
