package adfh

import (
	"github.com/robert-malhotra/go-adfh/hdf5"
)

// attribute looks key up on obj; ErrNoAtt when it is missing.
func attribute(obj hdf5.Object, key string) (*hdf5.Attribute, error) {
	a, ok := obj.Attr(key)
	if !ok {
		return nil, fail(ErrNoAtt, nil)
	}
	return a, nil
}

func getString(obj hdf5.Object, key string) (string, error) {
	a, err := attribute(obj, key)
	if err != nil {
		return "", err
	}
	s, err := a.String()
	if err != nil {
		return "", fail(ErrARead, err)
	}
	return s, nil
}

// setString overwrites a string attribute, cutting value to what the
// attribute can hold.
func setString(obj hdf5.Object, key, value string) error {
	a, err := attribute(obj, key)
	if err != nil {
		return err
	}
	if max := len(a.Bytes()) - 1; len(value) > max {
		value = value[:max]
	}
	if err := a.SetString(value); err != nil {
		return fail(ErrAWrite, err)
	}
	return nil
}

// createString adds a string attribute sized for max characters.
func createString(obj hdf5.Object, key, value string, max int) error {
	a, err := obj.CreateAttr(key, hdf5.String(max+1), nil)
	if err != nil {
		return fail(ErrACreate, err)
	}
	if len(value) > max {
		value = value[:max]
	}
	if err := a.SetString(value); err != nil {
		return fail(ErrAWrite, err)
	}
	return nil
}

// putString sets key, creating the attribute when it does not exist yet.
func putString(obj hdf5.Object, key, value string, max int) error {
	if _, ok := obj.Attr(key); ok {
		return setString(obj, key, value)
	}
	return createString(obj, key, value, max)
}

func getInt(obj hdf5.Object, key string) (int, error) {
	a, err := attribute(obj, key)
	if err != nil {
		return 0, err
	}
	v, err := a.Int32()
	if err != nil {
		return 0, fail(ErrARead, err)
	}
	return int(v), nil
}

func setInt(obj hdf5.Object, key string, v int) error {
	a, err := attribute(obj, key)
	if err != nil {
		return err
	}
	if err := a.SetInt32(int32(v)); err != nil {
		return fail(ErrAWrite, err)
	}
	return nil
}

func createInt(obj hdf5.Object, key string, v int) error {
	a, err := obj.CreateAttr(key, hdf5.Integer(4, true), []uint64{1})
	if err != nil {
		return fail(ErrACreate, err)
	}
	if err := a.SetInt32(int32(v)); err != nil {
		return fail(ErrAWrite, err)
	}
	return nil
}

func putInt(obj hdf5.Object, key string, v int) error {
	if _, ok := obj.Attr(key); ok {
		return setInt(obj, key, v)
	}
	return createInt(obj, key, v)
}

// Hidden string payloads are one-dimensional C1 datasets holding the text
// and its terminating NUL, zero padded up to size elements.
func writeText(g *hdf5.Group, name, text string, size int) error {
	if size <= len(text) {
		size = len(text) + 1
	}
	raw := make([]byte, size)
	copy(raw, text)
	d, err := g.CreateDataset(name, hdf5.Integer(1, true), []uint64{uint64(len(raw))})
	if err != nil {
		return fail(ErrDCreate, err)
	}
	if err := d.WriteAll(raw); err != nil {
		return fail(ErrDWrite, err)
	}
	return nil
}

// readText returns a hidden string payload and its element count.
func readText(g *hdf5.Group, name string) (string, int, error) {
	l, ok := g.Lookup(name)
	if !ok {
		return "", 0, fail(ErrDOpen, nil)
	}
	d, ok := l.Object().(*hdf5.Dataset)
	if !ok {
		return "", 0, fail(ErrDOpen, nil)
	}
	raw := d.ReadAll()
	n := len(raw)
	for i, b := range raw {
		if b == 0 {
			raw = raw[:i]
			break
		}
	}
	return string(raw), n, nil
}

// hiddenDataset returns the dataset stored under a hidden name.
func hiddenDataset(g *hdf5.Group, name string) (*hdf5.Dataset, bool) {
	l, ok := g.Lookup(name)
	if !ok {
		return nil, false
	}
	d, ok := l.Object().(*hdf5.Dataset)
	return d, ok
}
