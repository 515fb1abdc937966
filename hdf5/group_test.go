package hdf5

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFile(t *testing.T, name string, opts ...Option) *File {
	t.Helper()
	f, err := Create(filepath.Join(t.TempDir(), name), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func reopen(t *testing.T, f *File) *File {
	t.Helper()
	require.NoError(t, f.Close())
	r, err := Open(f.Path())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestGroupTreeRoundTrip(t *testing.T) {
	f := createFile(t, "tree.h5")
	root := f.Root()

	base, err := root.CreateGroup("Base")
	require.NoError(t, err)
	zone, err := base.CreateGroup("Zone 1")
	require.NoError(t, err)
	_, err = zone.CreateGroup(" hidden")
	require.NoError(t, err)
	_, err = base.CreateGroup("Family")
	require.NoError(t, err)

	assert.Equal(t, "/Base/Zone 1", zone.Path())
	assert.Equal(t, []string{"Zone 1", "Family"}, base.Names())

	r := reopen(t, f)
	got, err := r.Root().OpenGroup("/Base/Zone 1")
	require.NoError(t, err)
	assert.Equal(t, "Zone 1", got.Name())
	assert.True(t, got.Has(" hidden"))

	b, err := r.Root().OpenGroup("Base")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zone 1", "Family"}, b.Names(), "creation order survives a flush")
}

func TestGroupNameChecks(t *testing.T) {
	root := createFile(t, "names.h5").Root()
	_, err := root.CreateGroup("a")
	require.NoError(t, err)

	_, err = root.CreateGroup("a")
	assert.ErrorIs(t, err, ErrExists)
	for _, bad := range []string{"", ".", "x/y"} {
		_, err = root.CreateGroup(bad)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", bad)
	}
}

func TestUnlink(t *testing.T) {
	f := createFile(t, "unlink.h5")
	root := f.Root()
	g, err := root.CreateGroup("gone")
	require.NoError(t, err)
	_, err = g.CreateGroup("child")
	require.NoError(t, err)

	require.NoError(t, root.Unlink("gone"))
	assert.False(t, root.Has("gone"))
	assert.Equal(t, "", g.Path(), "unlinked objects have no path")
	assert.ErrorIs(t, root.Unlink("gone"), ErrNotFound)

	r := reopen(t, f)
	assert.Equal(t, 0, r.Root().Len())
}

func TestMove(t *testing.T) {
	f := createFile(t, "move.h5")
	root := f.Root()
	a, _ := root.CreateGroup("a")
	b, _ := root.CreateGroup("b")
	c, _ := root.CreateGroup("c")
	x, _ := a.CreateGroup("x")

	require.NoError(t, a.Move("x", b, "y"))
	assert.False(t, a.Has("x"))
	assert.Equal(t, "/b/y", x.Path())

	// renaming in place keeps the position
	require.NoError(t, root.Move("a", root, "A"))
	assert.Equal(t, []string{"A", "b", "c"}, root.Names())

	assert.ErrorIs(t, root.Move("b", root, "c"), ErrExists)
	assert.ErrorIs(t, root.Move("b", x, "b"), ErrInvalidName, "a group cannot move under its own descendant")
	assert.ErrorIs(t, root.Move("nope", c, "z"), ErrNotFound)

	require.NoError(t, root.Move("c", b, "c"))
	assert.Equal(t, []string{"y", "c"}, b.Names())

	r := reopen(t, f)
	_, err := r.Root().OpenGroup("/b/y")
	assert.NoError(t, err)
}

func TestSoftLinks(t *testing.T) {
	f := createFile(t, "soft.h5")
	root := f.Root()
	tgt, _ := root.CreateGroup("target")
	holder, _ := root.CreateGroup("holder")

	require.NoError(t, holder.CreateSoftLink("abs", "/target"))
	require.NoError(t, holder.CreateSoftLink("rel", "sibling"))
	require.NoError(t, holder.CreateSoftLink("dangling", "/nowhere"))
	_, err := holder.CreateGroup("sibling")
	require.NoError(t, err)

	obj, err := holder.Resolve("abs")
	require.NoError(t, err)
	assert.Equal(t, tgt.ObjectID(), obj.ObjectID())

	obj, err = holder.Resolve("rel")
	require.NoError(t, err)
	assert.Equal(t, "/holder/sibling", obj.Path())

	_, err = holder.Resolve("dangling")
	assert.ErrorIs(t, err, ErrNotFound)

	l, ok := holder.Lookup("abs")
	require.True(t, ok)
	assert.Equal(t, LinkSoft, l.Kind)
	assert.Nil(t, l.Object())

	r := reopen(t, f)
	h, err := r.Root().OpenGroup("holder")
	require.NoError(t, err)
	l, ok = h.Lookup("abs")
	require.True(t, ok)
	assert.Equal(t, "/target", l.Target)
	_, err = r.Root().OpenGroup("/holder/abs")
	assert.NoError(t, err)
}

func TestSoftLinkCycle(t *testing.T) {
	root := createFile(t, "cycle.h5").Root()
	require.NoError(t, root.CreateSoftLink("a", "/b"))
	require.NoError(t, root.CreateSoftLink("b", "/a"))

	_, err := root.Resolve("a")
	assert.ErrorIs(t, err, ErrLinkDepth)
}

func TestLinkDepthOption(t *testing.T) {
	root := createFile(t, "depth.h5", WithLinkDepth(2)).Root()
	_, err := root.CreateGroup("end")
	require.NoError(t, err)
	require.NoError(t, root.CreateSoftLink("l1", "/end"))
	require.NoError(t, root.CreateSoftLink("l2", "/l1"))
	require.NoError(t, root.CreateSoftLink("l3", "/l2"))

	_, err = root.Resolve("l2")
	assert.NoError(t, err)
	_, err = root.Resolve("l3")
	assert.ErrorIs(t, err, ErrLinkDepth)
}

func TestExternalLinks(t *testing.T) {
	dir := t.TempDir()

	other, err := Create(filepath.Join(dir, "other.h5"))
	require.NoError(t, err)
	grid, err := other.Root().CreateGroup("Grid")
	require.NoError(t, err)
	_, err = grid.CreateDataset("x", Float(8), []uint64{3})
	require.NoError(t, err)
	require.NoError(t, other.Close())

	f, err := Create(filepath.Join(dir, "main.h5"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Root().CreateExternalLink("ext", "other.h5", "/Grid"))
	require.NoError(t, f.Root().CreateExternalLink("missing", "absent.h5", "/Grid"))
	require.NoError(t, f.Root().CreateExternalLink("self", "main.h5", "/"))

	obj, err := f.Root().Resolve("ext")
	require.NoError(t, err)
	g, ok := obj.(*Group)
	require.True(t, ok)
	assert.True(t, g.File().ReadOnly())
	assert.True(t, g.Has("x"))

	again, err := f.Root().Resolve("ext")
	require.NoError(t, err)
	assert.Equal(t, g.ObjectID(), again.ObjectID(), "external files are cached")

	_, err = f.Root().Resolve("missing")
	assert.ErrorIs(t, err, ErrExternalFile)

	self, err := f.Root().Resolve("self")
	require.NoError(t, err)
	assert.Equal(t, f.Root().ObjectID(), self.ObjectID())

	d, err := f.Root().OpenDataset("ext/x")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, d.Dims())
}

func TestExternalExpiry(t *testing.T) {
	dir := t.TempDir()
	other, err := Create(filepath.Join(dir, "other.h5"))
	require.NoError(t, err)
	_, err = other.Root().CreateGroup("Grid")
	require.NoError(t, err)
	require.NoError(t, other.Close())

	f, err := Create(filepath.Join(dir, "main.h5"), WithExternalTTL(10*time.Millisecond))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Root().CreateExternalLink("ext", "other.h5", "/Grid"))

	obj, err := f.Root().Resolve("ext")
	require.NoError(t, err)
	first := obj.(*Group).File()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, f.externals.ItemCount(), "nothing evicts in the background")
	assert.False(t, first.closed)

	obj, err = f.Root().Resolve("ext")
	require.NoError(t, err)
	assert.True(t, first.closed, "expired file is closed by the next lookup")
	assert.NotEqual(t, first.ID(), obj.(*Group).File().ID())
	assert.Equal(t, 1, f.externals.ItemCount())
}

func TestOpenKindMismatch(t *testing.T) {
	root := createFile(t, "kinds.h5").Root()
	_, err := root.CreateDataset("d", Integer(4, true), []uint64{2})
	require.NoError(t, err)
	_, err = root.CreateGroup("g")
	require.NoError(t, err)

	_, err = root.OpenGroup("d")
	assert.ErrorIs(t, err, ErrNotGroup)
	_, err = root.OpenDataset("g")
	assert.ErrorIs(t, err, ErrNotDataset)
	_, err = root.Open("d/below")
	assert.ErrorIs(t, err, ErrNotGroup)
}

func TestAttributes(t *testing.T) {
	f := createFile(t, "attrs.h5")
	g, err := f.Root().CreateGroup("node")
	require.NoError(t, err)

	name, err := g.CreateAttr("name", String(33), nil)
	require.NoError(t, err)
	require.NoError(t, name.SetString("node"))
	assert.Error(t, name.SetString(string(make([]byte, 33))), "value must leave room for the terminator")

	order, err := g.CreateAttr("order", Integer(4, true), []uint64{1})
	require.NoError(t, err)
	require.NoError(t, order.SetInt32(-7))
	assert.Error(t, order.SetString("x"))

	_, err = g.CreateAttr("name", String(3), nil)
	assert.ErrorIs(t, err, ErrExists)

	_, err = g.CreateAttr("tmp", Integer(1, false), nil)
	require.NoError(t, err)
	require.NoError(t, g.DeleteAttr("tmp"))
	assert.ErrorIs(t, g.DeleteAttr("tmp"), ErrNotFound)

	r := reopen(t, f)
	node, err := r.Root().OpenGroup("node")
	require.NoError(t, err)
	require.Len(t, node.Attrs(), 2)

	a, ok := node.Attr("name")
	require.True(t, ok)
	s, err := a.String()
	require.NoError(t, err)
	assert.Equal(t, "node", s)
	assert.Equal(t, 33, a.Type().Size)

	a, ok = node.Attr("order")
	require.True(t, ok)
	v, err := a.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), v)
	assert.Equal(t, []uint64{1}, a.Dims())
}

func TestWalk(t *testing.T) {
	root := createFile(t, "walk.h5").Root()
	a, _ := root.CreateGroup("a")
	_, _ = a.CreateGroup("b")
	_, _ = a.CreateDataset(" data", Integer(4, true), []uint64{1})
	_, _ = root.CreateGroup("skip")
	require.NoError(t, root.CreateSoftLink("s", "/a"))

	var seen []string
	err := Walk(root, func(path string, depth int, l *Link) error {
		seen = append(seen, path)
		if l.Name == "skip" {
			return SkipGroup
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/a/b", "/a/ data", "/skip", "/s"}, seen)

	stop := os.ErrClosed
	err = Walk(root, func(string, int, *Link) error { return stop })
	assert.Equal(t, stop, err)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a//b/"))
	assert.Empty(t, SplitPath("/"))
	assert.Equal(t, "/a/ b", CleanPath("a/ b/"))
	assert.Equal(t, "/x", JoinPath("/", "x"))
	assert.Equal(t, "/x/y", JoinPath("/x", "y"))

	obj, attr, err := ParseAttrPath("/Base/Zone@label")
	require.NoError(t, err)
	assert.Equal(t, "/Base/Zone", obj)
	assert.Equal(t, "label", attr)

	obj, _, err = ParseAttrPath("@name")
	require.NoError(t, err)
	assert.Equal(t, "/", obj)

	_, _, err = ParseAttrPath("/no-attr")
	assert.ErrorIs(t, err, ErrInvalidName)
}
