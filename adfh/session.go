// Package adfh stores ADF node trees in HDF5 files.
//
// A node is a group carrying name, label and type attributes, an optional
// " data" dataset and child nodes. Entries whose names start with a space
// are bookkeeping and never show up as children. Link nodes redirect to a
// node of the same or another file and are followed transparently by the
// read side of the API.
//
// All state lives in a Session; its methods are safe for concurrent use
// and are serialized internally.
package adfh

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/hdf5"
)

// Node is a handle on a node. A handle stays usable until it is released,
// the node is deleted, or its file is closed.
type Node struct {
	g *hdf5.Group
}

// Path is the container path of the node, "" for a released handle.
func (n *Node) Path() string {
	if n == nil || n.g == nil {
		return ""
	}
	return n.g.Path()
}

func (n *Node) String() string { return n.Path() }

// Session owns the open-file registry, the error-abort flag and the
// configuration shared by every operation.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	logger *logrus.Logger
	log    *logrus.Entry
	reg    *registry
	order  orderPolicy
	abort  bool
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithLogger sends session logs to l instead of a logger built from the
// configuration.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession returns a session with an empty registry.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if s.logger == nil {
		s.logger = s.cfg.NewLogger()
	}
	s.log = s.logger.WithField("component", "adfh")
	s.reg = newRegistry(s.cfg.MaxFiles)
	s.order = newOrderPolicy(s.cfg.ChildOrder)
	s.abort = s.cfg.AbortOnError
	return s, nil
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// fail builds an engine error; the operation name is filled in by done.
func fail(code Code, cause error) error {
	return newError("", code, cause)
}

// done finishes a public operation: it names the operation in the error,
// logs it and aborts the process when the error state is set.
func (s *Session) done(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		e = newError(op, Sentinel, err)
	}
	if e.Op == "" {
		e.Op = op
	}
	s.log.WithFields(logrus.Fields{"op": op, "code": int(e.Code)}).Debug(e.Error())
	if s.abort {
		s.logger.Fatalf("ERROR:%s", e.Code.Message())
	}
	return e
}

// group returns the group behind a caller handle.
func group(n *Node) (*hdf5.Group, error) {
	if n == nil {
		return nil, fail(NullNodeIDPointer, nil)
	}
	if n.g == nil {
		return nil, fail(NodeIDZero, nil)
	}
	return n.g, nil
}

// SetErrorState sets (1) or clears (0) the abort-on-error flag.
func (s *Session) SetErrorState(state int) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { err = s.done("SetErrorState", err) }()

	switch state {
	case 0:
		s.abort = false
	case 1:
		s.abort = true
	default:
		return fail(BadErrorState, nil)
	}
	return nil
}

// GetErrorState returns 1 when failing operations abort the process.
func (s *Session) GetErrorState() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.abort {
		return 1
	}
	return 0
}

// ErrorMessage translates a code to its message.
func (s *Session) ErrorMessage(c Code) string { return c.Message() }

// Release invalidates a handle. Releasing twice is harmless.
func (s *Session) Release(n *Node) {
	if n != nil {
		n.g = nil
	}
}
