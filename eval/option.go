package eval

import (
	"os"

	"github.com/ardnew/reo/log"
)

// DefaultMaxDepth is the default limit on nested function calls.
//
//nolint:gochecknoglobals
var DefaultMaxDepth = 1000

type config struct {
	host     Host
	logger   log.Logger
	maxDepth int
}

// Option configures a [Session].
type Option func(*config)

// WithHost sets the host that performs output, input, time, and file
// operations. The default is a [StdHost] on the process's standard streams.
func WithHost(host Host) Option {
	return func(c *config) {
		c.host = host
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxDepth limits the depth of nested function calls. Deeper calls fail
// with [ErrMaxDepth]. A depth of zero or less disables the limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&c)
	}

	if c.host == nil {
		c.host = NewStdHost(os.Stdin, os.Stdout)
	}

	return c
}
