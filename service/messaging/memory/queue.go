package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/frostflake/internal/idgen"
	"github.com/viant/frostflake/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// Capacity bounds the number of queued messages; Publish blocks while the
	// queue is full. Zero means unbounded.
	Capacity int
}

// DefaultConfig returns an unbounded queue configuration
func DefaultConfig() Config {
	return Config{}
}

// BoundedConfig returns a configuration holding at most capacity messages
func BoundedConfig(capacity int) Config {
	return Config{Capacity: capacity}
}

// Message implements messaging.Message for in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	mu        sync.Mutex
	processed bool
	createdAt time.Time
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// CreatedAt returns the publish time
func (m *Message[T]) CreatedAt() time.Time {
	return m.createdAt
}

// Ack acknowledges the message as processed
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Queue implements an in-memory messaging.Queue with FIFO order
type Queue[T any] struct {
	config Config

	mu       sync.Mutex
	messages []*Message[T]
	closed   bool
	// ready is closed and replaced whenever a message arrives or the queue closes
	ready chan struct{}
	// space is closed and replaced whenever a message leaves or the queue closes
	space chan struct{}
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Capacity < 0 {
		config.Capacity = 0
	}
	return &Queue[T]{
		config: config,
		ready:  make(chan struct{}),
		space:  make(chan struct{}),
	}
}

// Publish adds a new item to the queue, waiting for room on a bounded queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	msg := &Message[T]{
		id:        idgen.Request(),
		payload:   *t,
		createdAt: time.Now(),
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return messaging.ErrClosed
		}
		if q.config.Capacity == 0 || len(q.messages) < q.config.Capacity {
			q.messages = append(q.messages, msg)
			close(q.ready)
			q.ready = make(chan struct{})
			q.mu.Unlock()
			return nil
		}
		space := q.space
		q.mu.Unlock()

		select {
		case <-space:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		q.mu.Lock()
		if len(q.messages) > 0 {
			msg := q.messages[0]
			q.messages[0] = nil
			q.messages = q.messages[1:]
			if !q.closed {
				close(q.space)
				q.space = make(chan struct{})
			}
			q.mu.Unlock()
			return msg, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, messaging.ErrClosed
		}
		ready := q.ready
		q.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close stops accepting new messages and wakes every blocked caller
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ready)
	close(q.space)
	return nil
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
