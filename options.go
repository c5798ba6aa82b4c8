package respool

import (
	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog"
)

type options struct {
	name   string
	logger zerolog.Logger
	stats  statsd.ClientInterface
}

func defaultOptions() *options {
	return &options{
		name:   "default",
		logger: zerolog.Nop(),
		stats:  &statsd.NoOpClient{},
	}
}

// Option configures a Pool.
type Option func(*options)

// WithName sets the name used in log fields and metric tags.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStatsd sets the client metrics are sent to. The default is a no-op client.
func WithStatsd(client statsd.ClientInterface) Option {
	return func(o *options) {
		if client != nil {
			o.stats = client
		}
	}
}
