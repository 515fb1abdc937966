// Package hdf5 is a small pure-Go HDF5 container: a mutable tree of groups,
// datasets, attributes and links that is decoded from a file on open and
// serialized back to it on flush.
//
// Only the parts of the format needed for a hierarchical node store are
// covered. Files written here use superblock version 3, version 2 object
// headers and compact link storage, and store raw data compact or
// contiguous. Reading additionally accepts old-style symbol-table groups
// and version 1 object headers.
package hdf5

import "github.com/pkg/errors"

// Sentinel errors. Errors returned by this package wrap one of these, so
// test with errors.Is.
var (
	ErrNotHDF5      = errors.New("hdf5: not an HDF5 file")
	ErrNotFound     = errors.New("hdf5: object not found")
	ErrExists       = errors.New("hdf5: name already exists")
	ErrNotGroup     = errors.New("hdf5: not a group")
	ErrNotDataset   = errors.New("hdf5: not a dataset")
	ErrInvalidName  = errors.New("hdf5: invalid link name")
	ErrReadOnly     = errors.New("hdf5: file is read-only")
	ErrClosed       = errors.New("hdf5: file is closed")
	ErrLocked       = errors.New("hdf5: file is locked by another writer")
	ErrUnsupported  = errors.New("hdf5: unsupported feature")
	ErrLinkDepth    = errors.New("hdf5: too many levels of links")
	ErrExternalFile = errors.New("hdf5: external file not available")
	ErrSelection    = errors.New("hdf5: invalid selection")
	ErrType         = errors.New("hdf5: datatype mismatch")
)
