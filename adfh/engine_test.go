package adfh

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

func int32s(vs ...int32) []byte {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}

func toInt32s(b []byte) []int32 {
	out := make([]int32, len(b)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

// engineSuite runs every test against a fresh file opened NEW.
type engineSuite struct {
	suite.Suite
	order string

	s    *Session
	dir  string
	path string
	root *Node
}

func (es *engineSuite) SetupTest() {
	cfg := DefaultConfig()
	if es.order != "" {
		cfg.ChildOrder = es.order
	}
	es.s = newTestSession(es.T(), WithConfig(cfg))
	es.dir = es.T().TempDir()
	es.path = filepath.Join(es.dir, "tree.adf")

	root, err := es.s.DatabaseOpen(es.path, "NEW", "NATIVE")
	es.Require().NoError(err)
	es.root = root
}

func (es *engineSuite) TearDownTest() {
	es.NoError(es.s.CloseAll())
}

// reopen closes the file and opens it again in mode.
func (es *engineSuite) reopen(mode string) {
	es.Require().NoError(es.s.DatabaseClose(es.root))
	root, err := es.s.DatabaseOpen(es.path, mode, "")
	es.Require().NoError(err)
	es.root = root
}

func (es *engineSuite) create(parent *Node, name string) *Node {
	n, err := es.s.Create(parent, name)
	es.Require().NoError(err)
	return n
}

func (es *engineSuite) lookup(path string) *Node {
	n, err := es.s.GetNodeID(es.root, path)
	es.Require().NoError(err)
	return n
}

func (es *engineSuite) names(n *Node) []string {
	count, err := es.s.NumberOfChildren(n)
	es.Require().NoError(err)
	if count == 0 {
		return nil
	}
	names, err := es.s.ChildrenNames(n, 0, count, MaxNameLength)
	es.Require().NoError(err)
	return names
}

func (es *engineSuite) code(err error) Code { return CodeOf(err) }

func TestEngineCounterOrder(t *testing.T) {
	suite.Run(t, &engineSuite{order: OrderCounter})
}

func TestEngineExplicitOrder(t *testing.T) {
	suite.Run(t, &engineSuite{order: OrderExplicit})
}

func (es *engineSuite) TestScenario() {
	base := es.create(es.root, "Base")
	es.Require().NoError(es.s.PutDimensionInformation(base, "I4", []int{5}))
	buf := int32s(10, 20, 30, 40, 50)
	es.Require().NoError(es.s.WriteData(base, Span([]int{5}), []int{5}, Span([]int{5}), buf))

	es.reopen("READ_ONLY")
	base = es.lookup("Base")
	got := make([]byte, 20)
	es.Require().NoError(es.s.ReadData(base, Span([]int{5}), []int{5}, Span([]int{5}), got))
	es.Equal([]int32{10, 20, 30, 40, 50}, toInt32s(got))

	es.reopen("OLD")
	base = es.lookup("/Base")
	es.NoError(es.s.SetLabel(base, "Zone_t"))
	label, err := es.s.GetLabel(base)
	es.NoError(err)
	es.Equal("Zone_t", label)
}

func (es *engineSuite) TestRootStamps() {
	name, err := es.s.GetName(es.root)
	es.NoError(err)
	es.Equal("HDF5 MotherNode", name)
	label, err := es.s.GetLabel(es.root)
	es.NoError(err)
	es.Equal("Root Node of HDF5 File", label)
	typ, err := es.s.GetDataType(es.root)
	es.NoError(err)
	es.Equal("MT", typ)

	format, err := es.s.DatabaseGetFormat(es.root)
	es.NoError(err)
	es.Equal("IEEE_LITTLE_32", format)
	version, err := es.s.DatabaseVersion(es.root)
	es.NoError(err)
	es.Equal("HDF5 Version 1.10.0", version)
	es.Equal(ErrNotImplemented, es.code(es.s.DatabaseSetFormat(es.root, "CRAY")))

	es.Empty(es.names(es.root), "hidden entries are not children")
}

func (es *engineSuite) TestCreateAndLookup() {
	a := es.create(es.root, " Alpha ")
	name, err := es.s.GetName(a)
	es.NoError(err)
	es.Equal("Alpha", name)
	typ, err := es.s.GetDataType(a)
	es.NoError(err)
	es.Equal("MT", typ)
	label, err := es.s.GetLabel(a)
	es.NoError(err)
	es.Empty(label)

	_, err = es.s.Create(es.root, "Alpha")
	es.Equal(DuplicateChildName, es.code(err))
	_, err = es.s.Create(es.root, "a/b")
	es.Equal(InvalidNodeName, es.code(err))

	b := es.create(a, "Beta")
	c := es.create(b, "Gamma")
	got := es.lookup("/Alpha/Beta/Gamma")
	es.Equal(c.Path(), got.Path())
	got, err = es.s.GetNodeID(a, "Beta")
	es.NoError(err)
	es.Equal(b.Path(), got.Path())

	got, err = es.s.GetNodeID(es.root, "Alpha/Beta/Gamma")
	es.NoError(err)
	es.Equal(c.Path(), got.Path())
	got, err = es.s.GetNodeID(a, "Beta/Gamma")
	es.NoError(err)
	es.Equal(c.Path(), got.Path())
	_, err = es.s.GetNodeID(a, "Beta/Nope")
	es.Equal(ErrGOpen, es.code(err))

	_, err = es.s.GetNodeID(a, "Nope")
	es.Equal(ErrGOpen, es.code(err))
	_, err = es.s.GetNodeID(es.root, "/Alpha/Nope/Gamma")
	es.Equal(ErrGOpen, es.code(err))
	_, err = es.s.GetNodeID(es.root, "")
	es.Equal(NullStringPointer, es.code(err))

	r, err := es.s.GetRootID(c)
	es.NoError(err)
	es.Equal("/", r.Path())
	root := es.lookup("/")
	es.Equal("/", root.Path())
}

func (es *engineSuite) TestChildrenWindows() {
	for _, n := range []string{"n0", "n1", "n2", "n3", "n4"} {
		es.create(es.root, n)
	}
	count, err := es.s.NumberOfChildren(es.root)
	es.NoError(err)
	es.Equal(5, count)
	es.Equal([]string{"n0", "n1", "n2", "n3", "n4"}, es.names(es.root))

	names, err := es.s.ChildrenNames(es.root, 1, 2, MaxNameLength)
	es.NoError(err)
	es.Equal([]string{"n1", "n2"}, names)

	names, err = es.s.ChildrenNames(es.root, 3, 10, 1)
	es.NoError(err)
	es.Equal([]string{"n", "n"}, names, "names are cut to the requested length")

	ids, err := es.s.ChildrenIDs(es.root, 4, 1)
	es.NoError(err)
	es.Require().Len(ids, 1)
	es.Equal("/n4", ids[0].Path())
	es.s.Release(ids[0])

	names, err = es.s.ChildrenNames(es.root, 7, 3, MaxNameLength)
	es.NoError(err)
	es.Empty(names)

	_, err = es.s.ChildrenNames(es.root, -1, 3, MaxNameLength)
	es.Equal(NumberLessThanMinimum, es.code(err))
}

func (es *engineSuite) TestDeleteRecursion() {
	a := es.create(es.root, "A")
	b := es.create(a, "B")
	c := es.create(b, "C")
	es.Require().NoError(es.s.PutDimensionInformation(c, "R8", []int{3}))
	es.create(es.root, "Z")

	es.Equal(ChildNotOfGivenParent, es.code(es.s.Delete(es.root, b)))

	es.Require().NoError(es.s.Delete(es.root, a))
	es.Equal([]string{"Z"}, es.names(es.root))
	for _, p := range []string{"/A", "/A/B", "/A/B/C"} {
		_, err := es.s.GetNodeID(es.root, p)
		es.Equal(ErrGOpen, es.code(err), p)
	}
	es.Equal(ChildNotOfGivenParent, es.code(es.s.Delete(es.root, a)), "deleted twice")

	es.reopen("OLD")
	es.Equal([]string{"Z"}, es.names(es.root))
}

func (es *engineSuite) TestDeleteKeepsOrder() {
	for _, n := range []string{"a", "b", "c", "d"} {
		es.create(es.root, n)
	}
	es.Require().NoError(es.s.Delete(es.root, es.lookup("b")))
	es.Equal([]string{"a", "c", "d"}, es.names(es.root))

	names, err := es.s.ChildrenNames(es.root, 1, 1, MaxNameLength)
	es.NoError(err)
	es.Equal([]string{"c"}, names, "no gap is left where b was")

	es.create(es.root, "e")
	es.Equal([]string{"a", "c", "d", "e"}, es.names(es.root))
}

func (es *engineSuite) TestMove() {
	src := es.create(es.root, "Src")
	dst := es.create(es.root, "Dst")
	es.create(dst, "Existing")
	x := es.create(src, "X")
	es.create(x, "Inner")
	es.create(src, "Y")

	es.Require().NoError(es.s.Move(src, x, dst))
	es.Equal([]string{"Y"}, es.names(src))
	es.Equal([]string{"Existing", "X"}, es.names(dst))
	es.Equal("/Dst/X", x.Path())
	es.Equal("/Dst/X/Inner", es.lookup("/Dst/X/Inner").Path())

	ids, err := es.s.ChildrenIDs(src, 0, 1)
	es.NoError(err)
	es.Require().Len(ids, 1)
	es.Equal("/Src/Y", ids[0].Path())

	es.Equal(ChildNotOfGivenParent, es.code(es.s.Move(src, x, dst)))

	clash := es.create(src, "Existing")
	es.Equal(DuplicateChildName, es.code(es.s.Move(src, clash, dst)))
}

func (es *engineSuite) TestPutName() {
	a := es.create(es.root, "A")
	es.create(es.root, "B")
	child := es.create(a, "Leaf")

	es.Require().NoError(es.s.PutName(es.root, a, "  Renamed "))
	name, err := es.s.GetName(a)
	es.NoError(err)
	es.Equal("Renamed", name)
	es.Equal([]string{"Renamed", "B"}, es.names(es.root), "rename keeps the position")
	es.Equal("/Renamed/Leaf", child.Path())

	es.Equal(DuplicateChildName, es.code(es.s.PutName(es.root, a, "B")))
	es.Equal(StringLengthZero, es.code(es.s.PutName(es.root, a, "")))
	es.Equal(ChildNotOfGivenParent, es.code(es.s.PutName(es.root, child, "Other")))

	es.reopen("OLD")
	es.Equal("/Renamed/Leaf", es.lookup("/Renamed/Leaf").Path())
}

func (es *engineSuite) TestLabels() {
	n := es.create(es.root, "N")
	es.Require().NoError(es.s.SetLabel(n, "Zone_t"))
	es.Equal(StringLengthTooBig, es.code(es.s.SetLabel(n, "0123456789012345678901234567890123")))
	label, err := es.s.GetLabel(n)
	es.NoError(err)
	es.Equal("Zone_t", label)

	es.reopen("READ_ONLY")
	n = es.lookup("N")
	err = es.s.SetLabel(n, "again")
	es.Equal(ErrAWrite, es.code(err))
	es.True(IsStorage(err))
}

func (es *engineSuite) TestDimensionInformation() {
	n := es.create(es.root, "Grid")
	rank, err := es.s.GetNumberOfDimensions(n)
	es.NoError(err)
	es.Zero(rank)
	_, err = es.s.GetDimensionValues(n)
	es.Equal(ZeroDimensions, es.code(err))

	es.Require().NoError(es.s.PutDimensionInformation(n, "r8", []int{3, 4, 2}))
	typ, err := es.s.GetDataType(n)
	es.NoError(err)
	es.Equal("R8", typ)
	rank, err = es.s.GetNumberOfDimensions(n)
	es.NoError(err)
	es.Equal(3, rank)
	dims, err := es.s.GetDimensionValues(n)
	es.NoError(err)
	es.Equal([]int{3, 4, 2}, dims)
	data, err := es.s.ReadAllData(n)
	es.NoError(err)
	es.Len(data, 3*4*2*8)

	es.Equal(BadNumberOfDimensions, es.code(es.s.PutDimensionInformation(n, "I4", nil)))
	es.Equal(BadNumberOfDimensions, es.code(es.s.PutDimensionInformation(n, "I4", make([]int, 13))))
	es.Equal(BadDimensionValue, es.code(es.s.PutDimensionInformation(n, "I4", []int{2, 0})))
	es.Equal(DataTypeNotSupported, es.code(es.s.PutDimensionInformation(n, "X4", []int{2})))
	es.Equal(InvalidDataType, es.code(es.s.PutDimensionInformation(n, "LK", []int{2})))
	dims, err = es.s.GetDimensionValues(n)
	es.NoError(err)
	es.Equal([]int{3, 4, 2}, dims, "rejected calls leave the payload alone")

	es.Require().NoError(es.s.WriteAllData(n, make([]byte, 3*4*2*8)))
	es.Require().NoError(es.s.PutDimensionInformation(n, "MT", nil))
	typ, err = es.s.GetDataType(n)
	es.NoError(err)
	es.Equal("MT", typ)
	_, err = es.s.ReadAllData(n)
	es.Equal(NoData, es.code(err))

	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{2}))
	es.Require().NoError(es.s.WriteAllData(n, int32s(7, 8)))
	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{3}))
	data, err = es.s.ReadAllData(n)
	es.NoError(err)
	es.Equal([]int32{0, 0, 0}, toInt32s(data), "replacement payload starts zeroed")
}

func (es *engineSuite) TestRoundTripEveryType() {
	types := map[string]int{"B1": 1, "C1": 1, "I4": 4, "I8": 8, "U4": 4, "U8": 8, "R4": 4, "R8": 8}
	for code, size := range types {
		for rank := 1; rank <= MaxDimensions; rank++ {
			dims := make([]int, rank)
			for k := range dims {
				dims[k] = 1
			}
			dims[0], dims[rank-1] = 3, 2
			if rank == 1 {
				dims[0] = 5
			}
			n := es.create(es.root, code+"_"+string(rune('a'+rank)))
			es.Require().NoError(es.s.PutDimensionInformation(n, code, dims))

			total := 1
			for _, d := range dims {
				total *= d
			}
			buf := make([]byte, total*size)
			for i := range buf {
				buf[i] = byte(i*7 + rank)
			}
			es.Require().NoError(es.s.WriteData(n, Span(dims), dims, Span(dims), buf), code)
			got := make([]byte, len(buf))
			es.Require().NoError(es.s.ReadData(n, Span(dims), dims, Span(dims), got), code)
			es.Equal(buf, got, "%s rank %d", code, rank)
		}
	}
}

func (es *engineSuite) TestStridedIO() {
	n := es.create(es.root, "M")
	// 4 columns varying fastest, 3 rows
	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{4, 3}))
	vals := make([]int32, 12)
	for i := range vals {
		vals[i] = int32(i)
	}
	es.Require().NoError(es.s.WriteAllData(n, int32s(vals...)))

	// every other column of rows 2 and 3
	disk := Range{Start: []int{1, 2}, End: []int{4, 3}, Stride: []int{2, 1}}
	got := make([]byte, 4*4)
	es.Require().NoError(es.s.ReadData(n, disk, []int{4}, Span([]int{4}), got))
	es.Equal([]int32{4, 6, 8, 10}, toInt32s(got))

	// scatter into every other slot of an 8 element buffer
	mem := Range{Start: []int{1}, End: []int{8}, Stride: []int{2}}
	wide := make([]byte, 8*4)
	es.Require().NoError(es.s.ReadData(n, disk, []int{8}, mem, wide))
	es.Equal([]int32{4, 0, 6, 0, 8, 0, 10, 0}, toInt32s(wide))

	es.Require().NoError(es.s.WriteData(n, Range{Start: []int{4, 1}, End: []int{4, 3}, Stride: []int{1, 1}},
		[]int{3}, Span([]int{3}), int32s(-1, -2, -3)))
	all, err := es.s.ReadAllData(n)
	es.NoError(err)
	es.Equal([]int32{0, 1, 2, -1, 4, 5, 6, -2, 8, 9, 10, -3}, toInt32s(all))
}

func (es *engineSuite) TestStrideCountRoundsDown() {
	n := es.create(es.root, "S")
	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{6}))
	es.Require().NoError(es.s.WriteAllData(n, int32s(1, 2, 3, 4, 5, 6)))

	disk := Range{Start: []int{1}, End: []int{5}, Stride: []int{2}}
	got := make([]byte, 2*4)
	es.Require().NoError(es.s.ReadData(n, disk, []int{2}, Span([]int{2}), got))
	es.Equal([]int32{1, 3}, toInt32s(got))

	err := es.s.ReadData(n, disk, []int{3}, Span([]int{3}), make([]byte, 3*4))
	es.Equal(UnequalMemoryAndDiskDims, es.code(err))

	disk.End[0] = 6
	got = make([]byte, 3*4)
	es.Require().NoError(es.s.ReadData(n, disk, []int{3}, Span([]int{3}), got))
	es.Equal([]int32{1, 3, 5}, toInt32s(got))
}

func (es *engineSuite) TestStridedIOErrors() {
	n := es.create(es.root, "V")
	buf := make([]byte, 40)
	es.Equal(NoData, es.code(es.s.ReadData(n, Span([]int{10}), []int{10}, Span([]int{10}), buf)))
	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{10}))

	tests := []struct {
		disk Range
		code Code
	}{
		{Range{Start: []int{0}, End: []int{5}, Stride: []int{1}}, StartOutOfDefinedRange},
		{Range{Start: []int{1}, End: []int{11}, Stride: []int{1}}, EndOutOfDefinedRange},
		{Range{Start: []int{6}, End: []int{5}, Stride: []int{1}}, MinimumGTMaximum},
		{Range{Start: []int{1}, End: []int{5}, Stride: []int{0}}, BadStrideValue},
		{Range{Start: []int{1}, End: []int{5}, Stride: []int{6}}, BadStrideValue},
		{Range{Start: []int{1, 1}, End: []int{5, 1}, Stride: []int{1, 1}}, BadNumberOfDimensions},
	}
	for _, tt := range tests {
		err := es.s.ReadData(n, tt.disk, []int{10}, Span([]int{10}), buf)
		es.Equal(tt.code, es.code(err), "%+v", tt.disk)
		es.True(IsValidation(err))
	}

	err := es.s.ReadData(n, Span([]int{10}), []int{10}, Range{Start: []int{1}, End: []int{9}, Stride: []int{1}}, buf)
	es.Equal(UnequalMemoryAndDiskDims, es.code(err))
	err = es.s.ReadData(n, Span([]int{10}), []int{10}, Range{Start: []int{0}, End: []int{9}, Stride: []int{1}}, buf)
	es.Equal(StartOutOfDefinedRange, es.code(err), "memory side is checked too")
	err = es.s.ReadData(n, Span([]int{10}), []int{10}, Span([]int{10}), buf[:8])
	es.Equal(RequestedDataTooLong, es.code(err))
	es.Equal(UnequalMemoryAndDiskDims, es.code(es.s.WriteAllData(n, buf[:4])))
}

func (es *engineSuite) TestBlockData() {
	n := es.create(es.root, "B")
	es.Require().NoError(es.s.PutDimensionInformation(n, "I4", []int{3, 2}))
	es.Require().NoError(es.s.WriteAllData(n, int32s(1, 2, 3, 4, 5, 6)))

	got, err := es.s.ReadBlockData(n, 2, 4)
	es.NoError(err)
	es.Equal([]int32{2, 3, 4}, toInt32s(got))

	es.Require().NoError(es.s.WriteBlockData(n, 5, 6, int32s(50, 60)))
	all, err := es.s.ReadAllData(n)
	es.NoError(err)
	es.Equal([]int32{1, 2, 3, 4, 50, 60}, toInt32s(all))

	_, err = es.s.ReadBlockData(n, 4, 3)
	es.Equal(MinimumGTMaximum, es.code(err))
	_, err = es.s.ReadBlockData(n, 0, 3)
	es.Equal(StartOutOfDefinedRange, es.code(err))
	_, err = es.s.ReadBlockData(n, 1, 7)
	es.Equal(EndOutOfDefinedRange, es.code(err))
	es.Equal(EndOutOfDefinedRange, es.code(es.s.WriteBlockData(n, 6, 7, int32s(1, 2))))

	empty := es.create(es.root, "E")
	_, err = es.s.ReadBlockData(empty, 1, 1)
	es.Equal(NoData, es.code(err))
}

func (es *engineSuite) TestSameFileLink() {
	target := es.create(es.root, "Target")
	es.Require().NoError(es.s.SetLabel(target, "Real"))
	es.Require().NoError(es.s.PutDimensionInformation(target, "I4", []int{3}))
	es.Require().NoError(es.s.WriteAllData(target, int32s(4, 5, 6)))
	es.create(target, "Child")

	holder := es.create(es.root, "Holder")
	link, err := es.s.Link(holder, "L", "", "Target")
	es.Require().NoError(err)

	length, err := es.s.IsLink(link)
	es.NoError(err)
	es.Equal(len("Target")+1, length)
	length, err = es.s.IsLink(target)
	es.NoError(err)
	es.Zero(length)

	file, path, err := es.s.GetLinkPath(link)
	es.NoError(err)
	es.Empty(file)
	es.Equal("Target", path)
	_, _, err = es.s.GetLinkPath(target)
	es.Equal(NodeIsNotALink, es.code(err))

	name, err := es.s.GetName(link)
	es.NoError(err)
	es.Equal("L", name, "names are not followed")
	label, err := es.s.GetLabel(link)
	es.NoError(err)
	es.Equal("Real", label)
	typ, err := es.s.GetDataType(link)
	es.NoError(err)
	es.Equal("I4", typ)

	got := make([]byte, 12)
	es.Require().NoError(es.s.ReadData(link, Span([]int{3}), []int{3}, Span([]int{3}), got))
	es.Equal([]int32{4, 5, 6}, toInt32s(got))
	es.Equal([]string{"Child"}, es.names(link))
	es.Equal("/Target/Child", es.lookup("/Holder/L/Child").Path())
	child, err := es.s.GetNodeID(link, "Child")
	es.NoError(err)
	es.Equal("/Target/Child", child.Path())

	err = es.s.SetLabel(link, "nope")
	es.Equal(ErrLinkData, es.code(err))
	es.True(IsPolicy(err))
	es.Equal(ErrLinkData, es.code(es.s.PutDimensionInformation(link, "I4", []int{1})))
	es.Equal(ErrLinkData, es.code(es.s.WriteAllData(link, int32s(1, 2, 3))))
	es.Equal(ErrLinkData, es.code(es.s.WriteData(link, Span([]int{3}), []int{3}, Span([]int{3}), got)))
	es.Equal(ErrLinkData, es.code(es.s.WriteBlockData(link, 1, 1, got)))
	es.Equal(ErrLinkDelete, es.code(es.s.Delete(link, child)))
	es.Equal(ErrLinkMove, es.code(es.s.Move(es.root, target, link)))
	es.Equal(ErrLinkData, es.code(es.s.PutName(link, child, "Other")))
	_, err = es.s.Create(link, "New")
	es.Equal(ErrLinkNode, es.code(err))

	es.Require().NoError(es.s.Delete(holder, link))
	es.Empty(es.names(holder))
	es.Equal([]string{"Child"}, es.names(target), "deleting a link leaves the target alone")

	es.reopen("OLD")
	es.Equal([]string{"Target", "Holder"}, es.names(es.root))
}

func (es *engineSuite) TestDanglingAndChainedLinks() {
	dangling, err := es.s.Link(es.root, "Dangling", "", "/Nowhere")
	es.Require().NoError(err)
	_, err = es.s.GetLabel(dangling)
	es.Equal(LinkTargetNotThere, es.code(err))

	leaf := es.create(es.root, "Leaf")
	es.Require().NoError(es.s.SetLabel(leaf, "end"))
	_, err = es.s.Link(es.root, "First", "", "/Leaf")
	es.Require().NoError(err)
	second, err := es.s.Link(es.root, "Second", "", "/First")
	es.Require().NoError(err)
	label, err := es.s.GetLabel(second)
	es.NoError(err)
	es.Equal("end", label, "link chains are followed")

	a, err := es.s.Link(es.root, "LoopA", "", "/LoopB")
	es.Require().NoError(err)
	_, err = es.s.Link(es.root, "LoopB", "", "/LoopA")
	es.Require().NoError(err)
	_, err = es.s.GetLabel(a)
	es.Equal(LinksTooDeep, es.code(err))
}

func (es *engineSuite) TestExternalLink() {
	other := filepath.Join(es.dir, "other.adf")
	oroot, err := es.s.DatabaseOpen(other, "NEW", "")
	es.Require().NoError(err)
	zone := es.create(oroot, "Zone")
	es.Require().NoError(es.s.SetLabel(zone, "Zone_t"))
	es.Require().NoError(es.s.PutDimensionInformation(zone, "I4", []int{2}))
	es.Require().NoError(es.s.WriteAllData(zone, int32s(11, 22)))
	es.Require().NoError(es.s.DatabaseClose(oroot))

	link, err := es.s.Link(es.root, "Ext", "other.adf", "/Zone")
	es.Require().NoError(err)
	length, err := es.s.IsLink(link)
	es.NoError(err)
	es.Equal(len("/Zone")+1+len("other.adf")+1, length)
	file, path, err := es.s.GetLinkPath(link)
	es.NoError(err)
	es.Equal("other.adf", file)
	es.Equal("/Zone", path)

	es.Require().NoError(es.s.Flush(es.root))
	label, err := es.s.GetLabel(link)
	es.NoError(err)
	es.Equal("Zone_t", label)
	data, err := es.s.ReadAllData(link)
	es.NoError(err)
	es.Equal([]int32{11, 22}, toInt32s(data))

	missing, err := es.s.Link(es.root, "Gone", "missing.adf", "/Zone")
	es.Require().NoError(err)
	_, err = es.s.GetLabel(missing)
	es.Equal(LinkedToFileNotThere, es.code(err))

	wrong, err := es.s.Link(es.root, "Wrong", "other.adf", "/NoZone")
	es.Require().NoError(err)
	_, err = es.s.GetLabel(wrong)
	es.Equal(LinkTargetNotThere, es.code(err))
}

func (es *engineSuite) TestCloseInvalidatesSlot() {
	es.Equal(1, es.s.OpenFiles())
	es.Require().NoError(es.s.DatabaseClose(es.root))
	es.Equal(0, es.s.OpenFiles())
	es.Equal(ErrFileIndex, es.code(es.s.DatabaseClose(es.root)))
	es.Equal(ErrFileIndex, es.code(es.s.Flush(es.root)))

	root, err := es.s.DatabaseOpen(es.path, "old", "")
	es.Require().NoError(err)
	es.root = root
}
