package dispatch

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/frostflake/service/messaging"
)

// Option configures the dispatch service
type Option func(*Service)

// WithQueue sets the request queue implementation
func WithQueue(queue messaging.Queue[Request]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithLogger sets the logger used by workers
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
