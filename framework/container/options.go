package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for lookup misses and provider lifecycle
// events. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers the container collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.metrics = newMetrics(reg)
	}
}

// WithClasses shares an existing class registry with the container.
func WithClasses(classes *ClassRegistry) Option {
	return func(c *Container) {
		if classes != nil {
			c.classes = classes
		}
	}
}
