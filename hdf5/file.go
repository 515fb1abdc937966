package hdf5

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/juju/fslock"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/internal/superblock"
)

// probeSize covers every offset the superblock signature may sit at.
const probeSize = 2048 + 8

// File is an open HDF5 file. The whole object tree is held in memory;
// changes reach the disk on Flush or Close.
type File struct {
	mu sync.Mutex

	id   uuid.UUID
	path string
	abs  string
	opts *options
	log  *logrus.Entry

	fh   *os.File
	lock *fslock.Lock

	sb   *superblock.Superblock
	root *Group
	size int64

	readOnly bool
	closed   bool
	dirty    bool

	externals *cache.Cache
}

func newFile(path string, o *options, readOnly bool) *File {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f := &File{
		id:        uuid.New(),
		path:      path,
		abs:       abs,
		opts:      o,
		readOnly:  readOnly,
		externals: cache.New(o.externalTTL, 0),
	}
	f.log = o.log.WithFields(logrus.Fields{"component": "hdf5", "file": path})
	f.externals.OnEvicted(func(key string, v interface{}) {
		if err := v.(*File).Close(); err != nil {
			f.log.WithError(err).WithField("external", key).Warn("closing evicted external file")
		}
	})
	return f
}

// Create creates or truncates path and returns it open for writing with
// an empty root group. The file is locked against other writers until
// Close.
func Create(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)
	lk, err := lockFile(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		lk.Unlock()
		return nil, errors.Wrapf(err, "creating %s", path)
	}

	f := newFile(path, o, false)
	f.fh, f.lock = fh, lk
	f.sb = superblock.New()
	f.root = newGroup(f, "/", nil)
	if err := f.flushLocked(); err != nil {
		f.release()
		return nil, err
	}
	f.log.Debug("created")
	return f, nil
}

// Open opens an existing file read-only. The file descriptor is released
// as soon as the image has been decoded.
func Open(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer fh.Close()

	f := newFile(path, o, true)
	if err := f.loadFrom(fh); err != nil {
		return nil, err
	}
	f.log.WithField("bytes", f.size).Debug("opened read-only")
	return f, nil
}

// OpenReadWrite opens an existing file for reading and writing, taking
// the writer lock.
func OpenReadWrite(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)
	lk, err := lockFile(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		lk.Unlock()
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	f := newFile(path, o, false)
	f.fh, f.lock = fh, lk
	if err := f.loadFrom(fh); err != nil {
		f.release()
		return nil, err
	}
	f.log.WithField("bytes", f.size).Debug("opened read-write")
	return f, nil
}

// IsHDF5 reports whether path carries an HDF5 superblock signature.
func IsHDF5(path string) bool {
	fh, err := os.Open(path)
	if err != nil {
		return false
	}
	defer fh.Close()
	buf := make([]byte, probeSize)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	return superblock.Locate(buf[:n]) >= 0
}

func lockFile(path string) (*fslock.Lock, error) {
	lk := fslock.New(path + ".lock")
	if err := lk.TryLock(); err != nil {
		if err == fslock.ErrLocked {
			return nil, errors.Wrapf(ErrLocked, "%s", path)
		}
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	return lk, nil
}

// loadFrom maps the file and decodes it.
func (f *File) loadFrom(fh *os.File) error {
	st, err := fh.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat %s", f.path)
	}
	if st.Size() < 8 {
		return errors.Wrapf(ErrNotHDF5, "%s", f.path)
	}
	m, err := mmap.Map(fh, mmap.RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "mapping %s", f.path)
	}
	defer m.Unmap()
	return f.load(m)
}

// ID identifies this open instance of the file.
func (f *File) ID() uuid.UUID { return f.id }

// Path is the name the file was opened with.
func (f *File) Path() string { return f.path }

// ReadOnly reports whether the file was opened without write access.
func (f *File) ReadOnly() bool { return f.readOnly }

// Root returns the root group.
func (f *File) Root() *Group { return f.root }

// Size is the length of the file as last read or written.
func (f *File) Size() int64 { return f.size }

// Superblock returns a copy of the superblock last read or written.
func (f *File) Superblock() superblock.Superblock { return *f.sb }

func (f *File) writable() error {
	if f.closed {
		return ErrClosed
	}
	if f.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (f *File) touch() { f.dirty = true }

func (f *File) resolver() *resolver {
	return &resolver{max: f.opts.linkDepth, seen: map[string]bool{}}
}

// Flush writes the object tree to disk.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writable(); err != nil {
		return err
	}
	return f.flushLocked()
}

// Close flushes pending changes of a writable file and releases it along
// with every file opened through its external links. Objects of a closed
// read-only file stay readable.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}

	var err error
	if !f.readOnly && f.dirty {
		err = f.flushLocked()
	}
	for key, item := range f.externals.Items() {
		if cerr := item.Object.(*File).Close(); cerr != nil {
			f.log.WithError(cerr).WithField("external", key).Warn("closing external file")
		}
	}
	f.externals.Flush()

	if rerr := f.release(); err == nil {
		err = rerr
	}
	f.closed = true
	f.log.Debug("closed")
	return err
}

// release drops the descriptor and the writer lock.
func (f *File) release() error {
	var err error
	if f.fh != nil {
		err = f.fh.Close()
		f.fh = nil
	}
	if f.lock != nil {
		if uerr := f.lock.Unlock(); err == nil {
			err = uerr
		}
		f.lock = nil
	}
	return errors.Wrapf(err, "closing %s", f.path)
}
