package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultResolverMaxDepth, c.ResolverMaxDepth)
	assert.Equal(t, DefaultMaxGroundingsPerSchema, c.MaxGroundingsPerSchema)
	assert.False(t, c.DequantifyEagerly)
	assert.NotNil(t, c.Logger)
}

func TestWithResolverMaxDepthOverridesDefault(t *testing.T) {
	c := New(WithResolverMaxDepth(5))
	assert.Equal(t, 5, c.ResolverMaxDepth)
}

func TestWithMaxGroundingsPerSchemaOverridesDefault(t *testing.T) {
	c := New(WithMaxGroundingsPerSchema(10))
	assert.Equal(t, 10, c.MaxGroundingsPerSchema)
}

func TestWithDequantifyEagerlyToggles(t *testing.T) {
	c := New(WithDequantifyEagerly(true))
	assert.True(t, c.DequantifyEagerly)
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	c := New(WithLogger(nil))
	assert.NotNil(t, c.Logger)
}

func TestWithLoggerOverridesDefault(t *testing.T) {
	l := zap.NewExample()
	c := New(WithLogger(l))
	assert.Same(t, l, c.Logger)
}
