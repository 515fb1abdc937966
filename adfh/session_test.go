package adfh

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s, err := NewSession(append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChildOrder = "random"
	_, err := NewSession(WithConfig(cfg))
	assert.Error(t, err)
}

func TestErrorState(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, 0, s.GetErrorState())
	require.NoError(t, s.SetErrorState(1))
	assert.Equal(t, 1, s.GetErrorState())
	require.NoError(t, s.SetErrorState(0))

	err := s.SetErrorState(2)
	assert.Equal(t, BadErrorState, CodeOf(err))
	assert.Equal(t, 0, s.GetErrorState())
}

func TestAbortOnError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	exited := 0
	logger.ExitFunc = func(code int) { exited = code }

	s, err := NewSession(WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, s.SetErrorState(1))

	_, err = s.DatabaseOpen(filepath.Join(t.TempDir(), "missing.h5"), "old", "")
	require.Error(t, err)
	assert.Equal(t, 1, exited)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.FatalLevel, hook.LastEntry().Level)
	assert.Equal(t, "ERROR:"+RequestedOldFileNotFound.Message(), hook.LastEntry().Message)
}

func TestFailuresAreLoggedWithOperation(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s, err := NewSession(WithLogger(logger))
	require.NoError(t, err)

	_, err = s.Create(nil, "x")
	assert.Equal(t, NullNodeIDPointer, CodeOf(err))
	assert.Contains(t, err.Error(), "Create: ")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Create", entry.Data["op"])
	assert.Equal(t, int(NullNodeIDPointer), entry.Data["code"])
}

func TestReleasedHandle(t *testing.T) {
	s := newTestSession(t)
	n := &Node{}
	s.Release(n)
	_, err := s.GetName(n)
	assert.Equal(t, NodeIDZero, CodeOf(err))
	assert.Equal(t, "", n.Path())
}
