// Package config holds the in-process configuration the core
// recognises: no env vars, no file paths — construction happens
// entirely through functional options.
package config

import "go.uber.org/zap"

// Defaults match what a caller gets if they never tune them: generous
// enough for the canonical blocks-world scenarios, small enough to
// fail fast on a runaway axiom set or schema.
const (
	DefaultResolverMaxDepth        = 1000
	DefaultMaxGroundingsPerSchema  = 100000
)

// Config holds the tunables the core exposes to callers.
type Config struct {
	// ResolverMaxDepth bounds SLD resolution depth; exceeding it raises
	// a ResolverLimit error.
	ResolverMaxDepth int
	// MaxGroundingsPerSchema bounds ground instances per action schema;
	// exceeding it raises a GroundingLimit error.
	MaxGroundingsPerSchema int
	// DequantifyEagerly, when true, expands forall/exists over typed
	// objects at grounding time even for preconditions that a cheaper
	// static check could have discarded first.
	DequantifyEagerly bool
	// Logger receives diagnostic output; defaults to a no-op logger.
	Logger *zap.Logger
}

// Option configures a Config.
type Option func(*Config)

// WithResolverMaxDepth overrides the resolver depth bound.
func WithResolverMaxDepth(n int) Option {
	return func(c *Config) { c.ResolverMaxDepth = n }
}

// WithMaxGroundingsPerSchema overrides the per-schema grounding cap.
func WithMaxGroundingsPerSchema(n int) Option {
	return func(c *Config) { c.MaxGroundingsPerSchema = n }
}

// WithDequantifyEagerly toggles eager dequantification.
func WithDequantifyEagerly(b bool) Option {
	return func(c *Config) { c.DequantifyEagerly = b }
}

// WithLogger overrides the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// New builds a Config from defaults plus the given options.
func New(opts ...Option) *Config {
	c := &Config{
		ResolverMaxDepth:       DefaultResolverMaxDepth,
		MaxGroundingsPerSchema: DefaultMaxGroundingsPerSchema,
		Logger:                 zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
