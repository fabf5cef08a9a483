package platform

import (
	"log/slog"

	"github.com/aretw0/persistor/pkg/registry"
)

// options holds the internal configuration for context construction.
type options struct {
	logger   *slog.Logger
	registry *registry.Registry
}

// Option defines a functional option for configuring a Context.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:   nil,
		registry: nil,
	}
}

// WithLogger sets the logger handed to the context.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the type registry used by text contexts to resolve
// stored type tags. Defaults to registry.Default.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}
