package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/frostflake/flake"
)

// ErrLeaseReleased is returned by a lease used after Release.
var ErrLeaseReleased = errors.New("lease released")

type slot struct {
	index     int
	generator *flake.Generator
}

// Pool lends generators to one borrower at a time.
type Pool struct {
	opts flake.PoolOptions
	size int

	mu   sync.Mutex
	cond *sync.Cond
	free []*slot
}

// New creates a pool of size generators, each bound to its own pool index.
func New(size int, opts flake.PoolOptions) (*Pool, error) {
	if err := opts.CheckSize(size); err != nil {
		return nil, err
	}
	p := &Pool{opts: opts, size: size, free: make([]*slot, 0, size)}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < size; i++ {
		g, err := flake.New(opts.Generator(i))
		if err != nil {
			return nil, fmt.Errorf("failed to create generator %d: %w", i, err)
		}
		p.free = append(p.free, &slot{index: i, generator: g})
	}
	return p, nil
}

// Acquire blocks until a generator is available and borrows it.
func (p *Pool) Acquire() *Lease {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.free) == 0 {
		p.cond.Wait()
	}
	s := p.take()
	return &Lease{pool: p, index: s.index, slot: s}
}

// TryAcquire borrows a generator when one is available without blocking.
func (p *Pool) TryAcquire() (*Lease, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		return nil, false
	}
	s := p.take()
	return &Lease{pool: p, index: s.index, slot: s}, true
}

// take pops the head of the free list; p.mu must be held.
func (p *Pool) take() *slot {
	s := p.free[0]
	p.free[0] = nil
	p.free = p.free[1:]
	return s
}

func (p *Pool) put(s *slot) {
	p.mu.Lock()
	p.free = append(p.free, s)
	p.mu.Unlock()
	p.cond.Signal()
}

// Generate borrows a generator for a single call.
func (p *Pool) Generate(_ context.Context) (flake.ID, error) {
	lease := p.Acquire()
	defer lease.Release()
	return lease.Generate()
}

// Extract splits id into elapsed ticks, pool index, node and sequence. The
// layout is shared by every slot, so no generator is borrowed.
func (p *Pool) Extract(id flake.ID) (elapsed, pool, node, seq uint64) {
	return p.opts.Extract(id)
}

// Size returns the number of generators owned by the pool.
func (p *Pool) Size() int { return p.size }

// Available returns the number of generators not currently borrowed.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Lease is an exclusive borrow of one pooled generator.
type Lease struct {
	pool  *Pool
	index int

	mu   sync.Mutex
	slot *slot
}

// Generate returns the next identifier of the borrowed generator. It fails
// with ErrLeaseReleased once the lease has been released.
func (l *Lease) Generate() (flake.ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slot == nil {
		return 0, fmt.Errorf("checkout: generator %d: %w", l.index, ErrLeaseReleased)
	}
	return l.slot.generator.Generate()
}

// Extract splits id into elapsed ticks, combined pool/node and sequence.
// Every slot shares the layout, so it keeps working after Release.
func (l *Lease) Extract(id flake.ID) (elapsed, node, seq uint64) {
	return l.pool.opts.Options().Extract(id)
}

// Index returns the pool index of the borrowed generator.
func (l *Lease) Index() int { return l.index }

// Release returns the generator and wakes one waiter. Calling it more than
// once has no effect.
func (l *Lease) Release() {
	l.mu.Lock()
	s := l.slot
	l.slot = nil
	l.mu.Unlock()
	if s != nil {
		l.pool.put(s)
	}
}
