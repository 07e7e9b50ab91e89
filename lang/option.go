package lang

import "github.com/ardnew/reo/log"

// DefaultMaxDepth is the default limit on nested blocks and expressions.
//
//nolint:gochecknoglobals
var DefaultMaxDepth = 256

// config holds parser settings. Only fields that affect the parsed tree
// participate in the cache key.
type config struct {
	logger   log.Logger
	maxDepth int
}

// Option configures parsing.
type Option func(*config)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxDepth limits the nesting of blocks and expressions. Deeper input
// fails with [ErrMaxDepth]. A depth of zero or less disables the limit.
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

	return c
}
