package adfh

import (
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

func mockStore(ctrl *gomock.Controller, id uuid.UUID) *Mockstore {
	m := NewMockstore(ctrl)
	m.EXPECT().ID().Return(id).AnyTimes()
	m.EXPECT().Path().Return("mock.h5").AnyTimes()
	return m
}

func TestRegistryLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r := newRegistry(2)
	assert.False(t, r.initialized())

	a, b := mockStore(ctrl, uuid.New()), mockStore(ctrl, uuid.New())
	sa, err := r.add(a)
	require.NoError(t, err)
	assert.True(t, r.initialized())
	_, err = r.add(b)
	require.NoError(t, err)

	_, err = r.add(mockStore(ctrl, uuid.New()))
	assert.Equal(t, TooManyFilesOpened, CodeOf(err))
	assert.True(t, IsResource(err))

	slot, st, ok := r.find(b.ID())
	require.True(t, ok)
	assert.Same(t, b, st)

	r.remove(sa)
	assert.Equal(t, 1, r.len())
	sc, err := r.add(mockStore(ctrl, uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, sa, sc, "freed slot is reused")

	r.remove(sc)
	r.remove(slot)
	assert.Equal(t, 0, r.len())
	assert.False(t, r.initialized(), "table is dropped with the last file")

	_, _, ok = r.find(b.ID())
	assert.False(t, ok)
}

// registered puts a mock in front of a real file so node handles of that
// file resolve to the mock.
func registered(t *testing.T, s *Session, ctrl *gomock.Controller) (*Node, *Mockstore) {
	t.Helper()
	f, err := hdf5.Create(filepath.Join(t.TempDir(), "real.h5"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	m := mockStore(ctrl, f.ID())
	_, err = s.reg.add(m)
	require.NoError(t, err)
	return &Node{g: f.Root()}, m
}

func TestDatabaseCloseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestSession(t)
	root, m := registered(t, s, ctrl)
	m.EXPECT().Close().Return(errors.New("disk gone"))

	err := s.DatabaseClose(root)
	assert.Equal(t, FileCloseError, CodeOf(err))
	assert.Contains(t, err.Error(), "disk gone")
	assert.Equal(t, 0, s.OpenFiles(), "slot is released even when close fails")

	err = s.DatabaseClose(root)
	assert.Equal(t, ErrFileIndex, CodeOf(err))
}

func TestFlushThroughRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestSession(t)
	root, m := registered(t, s, ctrl)

	gomock.InOrder(
		m.EXPECT().ReadOnly().Return(false),
		m.EXPECT().Flush().Return(nil),
		m.EXPECT().ReadOnly().Return(false),
		m.EXPECT().Flush().Return(errors.New("short write")),
		m.EXPECT().ReadOnly().Return(true),
	)
	require.NoError(t, s.Flush(root))
	assert.Equal(t, FflushError, CodeOf(s.Flush(root)))
	assert.NoError(t, s.Flush(root), "read-only files have nothing to flush")
}

func TestCloseAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestSession(t)
	for i := 0; i < 3; i++ {
		m := mockStore(ctrl, uuid.New())
		m.EXPECT().Close().Return(nil)
		_, err := s.reg.add(m)
		require.NoError(t, err)
	}
	require.NoError(t, s.CloseAll())
	assert.Equal(t, 0, s.OpenFiles())
}
