// Package actor runs one generator inside a single goroutine that serially
// drains a bounded request queue. Because every mutation happens in that
// goroutine no lock is needed, and the returned Handle can be shared freely.
package actor

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

type event struct {
	reply chan result
}

type result struct {
	id  flake.ID
	err error
}

// Handle is the caller side of a running actor.
type Handle struct {
	queue     *memory.Queue[event]
	opts      flake.Options
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Spawn validates opts and starts the actor goroutine. The actor stops when
// ctx is done or Close is called.
func Spawn(ctx context.Context, opts flake.Options, options ...Option) (*Handle, error) {
	cfg := &config{capacity: DefaultCapacity, logger: logrus.StandardLogger()}
	for _, opt := range options {
		opt(cfg)
	}
	generator, err := flake.New(opts)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		queue:  memory.NewQueue[event](memory.BoundedConfig(cfg.capacity)),
		opts:   opts,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.run(ctx, generator, cfg.logger)
	return h, nil
}

func (h *Handle) run(ctx context.Context, generator *flake.Generator, logger logrus.FieldLogger) {
	defer close(h.done)
	defer h.drain(logger)
	for ctx.Err() == nil {
		msg, err := h.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, messaging.ErrClosed) {
				logger.WithError(err).Error("actor: failed to consume request")
			}
			return
		}
		h.serve(msg, generator, logger)
	}
}

// serve answers one request; a panicking generator or clock fails only that
// request and the actor keeps running.
func (h *Handle) serve(msg messaging.Message[event], generator *flake.Generator, logger logrus.FieldLogger) {
	request := msg.T()
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("request", msg.ID()).Errorf("actor: generator panicked: %v", r)
			close(request.reply)
		}
	}()
	id, err := generator.Generate()
	request.reply <- result{id: id, err: err}
	if err := msg.Ack(); err != nil {
		logger.WithError(err).WithField("request", msg.ID()).Warn("actor: failed to ack request")
	}
}

// drain closes the queue and fails every request still waiting in it.
func (h *Handle) drain(logger logrus.FieldLogger) {
	_ = h.queue.Close()
	for {
		msg, err := h.queue.Consume(context.Background())
		if err != nil {
			return
		}
		logger.WithField("request", msg.ID()).Warn("actor: stopped before serving request")
		close(msg.T().reply)
	}
}

// Generate asks the actor for the next identifier. It suspends while the
// queue is full and until the reply arrives.
func (h *Handle) Generate(ctx context.Context) (flake.ID, error) {
	request := &event{reply: make(chan result, 1)}
	if err := h.queue.Publish(ctx, request); err != nil {
		if errors.Is(err, messaging.ErrClosed) {
			return 0, fmt.Errorf("actor: %w: not running", flake.ErrDeliveryFailed)
		}
		return 0, err
	}
	select {
	case r, ok := <-request.reply:
		if !ok {
			return 0, fmt.Errorf("actor: %w: reply channel closed", flake.ErrDeliveryFailed)
		}
		return r.id, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Extract splits id into elapsed ticks, node and sequence.
func (h *Handle) Extract(id flake.ID) (elapsed, node, seq uint64) {
	return h.opts.Extract(id)
}

// Done is closed once the actor goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close stops the actor and waits for it to exit.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		<-h.done
	})
	return nil
}
