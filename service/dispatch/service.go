package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/frostflake/flake"
	"github.com/viant/frostflake/service/messaging"
	"github.com/viant/frostflake/service/messaging/memory"
)

// Request asks a worker for one identifier.
type Request struct {
	reply chan result
}

type result struct {
	id  flake.ID
	err error
}

// Service dispatches generate requests to pooled workers
type Service struct {
	size   int
	opts   flake.PoolOptions
	queue  messaging.Queue[Request]
	logger logrus.FieldLogger

	workers   []*worker
	workerWg  sync.WaitGroup
	closeOnce sync.Once
}

type worker struct {
	id        int
	service   *Service
	generator *flake.Generator
}

// New validates the pool layout, builds one generator per worker and starts
// the workers.
func New(size int, opts flake.PoolOptions, options ...Option) (*Service, error) {
	if err := opts.CheckSize(size); err != nil {
		return nil, err
	}
	s := &Service{
		size:   size,
		opts:   opts,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		s.queue = memory.NewQueue[Request](memory.DefaultConfig())
	}
	for i := 0; i < size; i++ {
		g, err := flake.New(opts.Generator(i))
		if err != nil {
			return nil, fmt.Errorf("failed to create generator for worker %d: %w", i, err)
		}
		s.workers = append(s.workers, &worker{id: i, service: s, generator: g})
	}
	for _, w := range s.workers {
		s.workerWg.Add(1)
		go w.run()
	}
	return s, nil
}

// run processes requests until the queue is closed and drained
func (w *worker) run() {
	defer w.service.workerWg.Done()
	ctx := context.Background()
	for {
		msg, err := w.service.queue.Consume(ctx)
		if err != nil {
			if !errors.Is(err, messaging.ErrClosed) {
				w.service.logger.WithError(err).WithField("worker", w.id).Error("failed to consume request")
			}
			return
		}
		w.handle(msg)
	}
}

func (w *worker) handle(msg messaging.Message[Request]) {
	request := msg.T()
	defer func() {
		if r := recover(); r != nil {
			w.service.logger.WithFields(logrus.Fields{
				"worker":  w.id,
				"request": msg.ID(),
			}).Errorf("generator panicked: %v", r)
			close(request.reply)
		}
	}()
	id, err := w.generator.Generate()
	request.reply <- result{id: id, err: err}
	if err := msg.Ack(); err != nil {
		w.service.logger.WithError(err).WithField("worker", w.id).Warn("failed to ack request")
	}
}

// Generate enqueues a request and waits for a worker to reply.
func (s *Service) Generate(ctx context.Context) (flake.ID, error) {
	request := &Request{reply: make(chan result, 1)}
	if err := s.queue.Publish(ctx, request); err != nil {
		if errors.Is(err, messaging.ErrClosed) {
			return 0, fmt.Errorf("dispatch: %w: %v", flake.ErrDeliveryFailed, err)
		}
		return 0, err
	}
	select {
	case r, ok := <-request.reply:
		if !ok {
			return 0, fmt.Errorf("dispatch: %w: reply channel closed", flake.ErrDeliveryFailed)
		}
		return r.id, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Extract splits id into elapsed ticks, worker index, node and sequence.
func (s *Service) Extract(id flake.ID) (elapsed, pool, node, seq uint64) {
	return s.opts.Extract(id)
}

// Size returns the number of workers.
func (s *Service) Size() int {
	return s.size
}

// Close stops accepting requests, lets workers drain queued ones and waits
// for them to exit.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.queue.Close()
		s.workerWg.Wait()
	})
	return err
}
