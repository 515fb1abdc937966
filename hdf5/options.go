package hdf5

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-adfh/internal/layout"
)

// DefaultLinkDepth bounds soft and external link chains.
const DefaultLinkDepth = 100

// DefaultExternalTTL is how long an externally linked file stays open after
// its last use.
const DefaultExternalTTL = 5 * time.Minute

// Option configures Create, Open and OpenReadWrite.
type Option func(*options)

type options struct {
	log              *logrus.Entry
	linkDepth        int
	compactThreshold int
	headerPadding    int
	externalTTL      time.Duration
}

func defaultOptions() *options {
	return &options{
		log:              logrus.NewEntry(logrus.StandardLogger()),
		linkDepth:        DefaultLinkDepth,
		compactThreshold: layout.DefaultCompactThreshold,
		externalTTL:      DefaultExternalTTL,
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the entry file events are logged to.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithLinkDepth sets the longest soft/external link chain Resolve follows.
func WithLinkDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.linkDepth = n
		}
	}
}

// WithCompactThreshold sets the payload size below which dataset bytes are
// stored inside the object header. Zero forces contiguous storage.
func WithCompactThreshold(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.compactThreshold = n
		}
	}
}

// WithHeaderPadding reserves at least n bytes of messages in every object
// header written.
func WithHeaderPadding(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.headerPadding = n
		}
	}
}

// WithExternalTTL sets how long files opened through external links are
// cached.
func WithExternalTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.externalTTL = d
		}
	}
}
