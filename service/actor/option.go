package actor

import "github.com/sirupsen/logrus"

// DefaultCapacity is the default bound of the request queue.
const DefaultCapacity = 10

// Option configures the actor
type Option func(*config)

type config struct {
	capacity int
	logger   logrus.FieldLogger
}

// WithCapacity bounds the request queue; senders suspend while it is full.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithLogger sets the actor logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
