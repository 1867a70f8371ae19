// Package locked shares a single generator between goroutines behind a
// mutex. All callers observe one monotonic stream of identifiers.
package locked

import (
	"context"
	"sync"

	"github.com/viant/frostflake/flake"
)

// Service guards one generator with an exclusive lock.
type Service struct {
	mu        sync.Mutex
	generator *flake.Generator
}

// New creates a locked generator.
func New(opts flake.Options) (*Service, error) {
	g, err := flake.New(opts)
	if err != nil {
		return nil, err
	}
	return &Service{generator: g}, nil
}

// Generate returns the next identifier. The context is accepted so the
// service is interchangeable with the queued strategies; lock acquisition
// itself is not cancellable.
func (s *Service) Generate(_ context.Context) (flake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generator.Generate()
}

// Extract splits id into elapsed ticks, node and sequence.
func (s *Service) Extract(id flake.ID) (elapsed, node, seq uint64) {
	return s.generator.Extract(id)
}

// Options returns the generator options.
func (s *Service) Options() flake.Options {
	return s.generator.Options()
}
