// Package flake implements the Snowflake style identifier codec: a timestamp
// field, an operator assigned node field and an in-tick sequence field packed
// into one uint64, with configurable widths.
//
// A Generator is not safe for concurrent use; share it through one of the
// service packages (locked, dispatch, checkout or actor).
package flake

import (
	"runtime"
	"time"
)

// waitInterval is the pause between clock polls while waiting for a new tick.
const waitInterval = time.Millisecond / 8

// maxWaitPolls bounds the WaitNextTick loop.
var maxWaitPolls = 16 + 16000

// Generator turns clock readings into packed identifiers.
type Generator struct {
	opts     Options
	lastTick uint64
	seq      uint64

	// precomputed layout
	tsShift   uint8
	tsMax     uint64
	nodeShift uint8
	nodeMask  uint64
	seqMax    uint64
}

// New creates a Generator; it fails when opts carries a rejected assignment.
func New(opts Options) (*Generator, error) {
	if opts.err != nil {
		return nil, opts.err
	}
	if opts.clock == nil {
		opts.clock = DefaultOptions().clock
	}
	return &Generator{
		opts:      opts,
		tsShift:   opts.nodeBits + opts.seqBits,
		tsMax:     maxValue(opts.tsBits),
		nodeShift: opts.seqBits,
		nodeMask:  maxValue(opts.nodeBits),
		seqMax:    maxValue(opts.seqBits),
	}, nil
}

// Options returns the options the generator was built with.
func (g *Generator) Options() Options { return g.opts }

// Generate returns the next identifier. Clock regression, a reading at or
// before the epoch, timestamp overflow and sequence exhaustion (under
// FailOnExhausted) fail the call without touching generator state.
func (g *Generator) Generate() (ID, error) {
	now := g.opts.clock.Now()
	if err := g.check(now); err != nil {
		return 0, err
	}
	seq := uint64(0)
	if now == g.lastTick {
		seq = g.seq + 1
	}
	if seq > g.seqMax {
		if g.opts.policy != WaitNextTick {
			return 0, &GenerateError{Now: now, Last: g.lastTick, Err: ErrSequenceExhausted}
		}
		var err error
		if now, err = g.nextTick(); err != nil {
			return 0, err
		}
		seq = 0
	}
	elapsed := now - g.opts.baseTS
	if elapsed > g.tsMax {
		return 0, &GenerateError{Now: now, Last: g.lastTick, Err: ErrTimestampOverflow}
	}
	g.lastTick = now
	g.seq = seq
	return ID(elapsed<<g.tsShift | (g.opts.node&g.nodeMask)<<g.nodeShift | seq&g.seqMax), nil
}

func (g *Generator) check(now uint64) error {
	if now <= g.opts.baseTS {
		return &GenerateError{Now: now, Last: g.lastTick, Err: ErrClockBeforeEpoch}
	}
	if now < g.lastTick {
		return &GenerateError{Now: now, Last: g.lastTick, Err: ErrClockRegression}
	}
	return nil
}

// nextTick polls the clock until it moves past the last observed tick.
func (g *Generator) nextTick() (uint64, error) {
	for i := 0; ; i++ {
		if i >= maxWaitPolls {
			return 0, &GenerateError{Now: g.lastTick, Last: g.lastTick, Err: ErrSequenceExhausted}
		}
		now := g.opts.clock.Now()
		if err := g.check(now); err != nil {
			return 0, err
		}
		if now > g.lastTick {
			return now, nil
		}
		if i < 16 {
			runtime.Gosched()
			continue
		}
		time.Sleep(waitInterval)
	}
}

// Extract splits id into elapsed ticks, node and sequence. It does not
// touch generator state and is safe for concurrent use.
func (g *Generator) Extract(id ID) (elapsed, node, seq uint64) {
	return g.opts.Extract(id)
}
