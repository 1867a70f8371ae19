package flake

import "github.com/viant/frostflake/internal/clock"

const (
	// TimestampBits is the default width of the timestamp field.
	TimestampBits = 42
	// NodeBits is the default width of the node field.
	NodeBits = 10
	// SequenceBits is the default width of the sequence field.
	SequenceBits = 12
	// PoolBits is the default width of the pool field of pooled generators.
	PoolBits = 4
	// PoolNodeBits is the default width of the node field of pooled generators.
	PoolNodeBits = 6
	// BaseTS is 2017-01-01T00:00:00Z expressed in milliseconds.
	BaseTS uint64 = 1483228800000

	totalBits = 64
)

// Clock reports the current tick as an unsigned integer.
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() uint64

// Now calls f.
func (f ClockFunc) Now() uint64 { return f() }

// ExhaustionPolicy decides what Generate does once the sequence field is
// exhausted within a tick.
type ExhaustionPolicy int

const (
	// FailOnExhausted returns ErrSequenceExhausted.
	FailOnExhausted ExhaustionPolicy = iota
	// WaitNextTick polls the clock until it advances and continues there.
	// A clock that does not advance within maxWaitPolls polls (about two
	// seconds with a real clock) fails the call with ErrSequenceExhausted.
	// Under the locked strategy the lock is held while waiting.
	WaitNextTick
)

var policyNames = []string{"fail", "wait"}

func (p ExhaustionPolicy) String() string {
	if int(p) >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "undefined"
}

// ParsePolicy maps "fail" and "wait" to their policy; empty means fail.
func ParsePolicy(name string) (ExhaustionPolicy, bool) {
	switch name {
	case "", "fail":
		return FailOnExhausted, true
	case "wait":
		return WaitNextTick, true
	}
	return FailOnExhausted, false
}

// Options describes field widths, epoch offset, node and clock of a Generator.
//
// Options is a value: every setter returns a modified copy, so options handed
// to a Generator can no longer change. The first rejected assignment is kept
// as a sticky error; later setters are ignored and New refuses to build.
//
//	opts := flake.DefaultOptions().
//		Bits(42, 10, 12).
//		BaseTS(1483228800000).
//		Node(3)
//	g, err := flake.New(opts)
type Options struct {
	tsBits, nodeBits, seqBits uint8

	baseTS uint64
	node   uint64
	clock  Clock
	policy ExhaustionPolicy

	err error
}

// DefaultOptions returns 42/10/12 bits, the 2017-01-01 epoch, node 0 and a
// millisecond clock.
func DefaultOptions() Options {
	return Options{
		tsBits:   TimestampBits,
		nodeBits: NodeBits,
		seqBits:  SequenceBits,
		baseTS:   BaseTS,
		clock:    ClockFunc(clock.Millis),
	}
}

// Bits sets the field widths. They must total 64 and keep the already set
// base timestamp and node representable; lower those first when shrinking.
func (o Options) Bits(ts, node, seq uint8) Options {
	if o.err != nil {
		return o
	}
	switch {
	case int(ts)+int(node)+int(seq) != totalBits:
		o.err = invalidOption("Bits", ErrFieldWidthMismatch)
	case o.baseTS > maxValue(ts):
		o.err = invalidOption("Bits", ErrBaseExceedsWidth)
	case o.node > maxValue(node):
		o.err = invalidOption("Bits", ErrNodeExceedsWidth)
	default:
		o.tsBits, o.nodeBits, o.seqBits = ts, node, seq
	}
	return o
}

// BaseTS sets the epoch offset subtracted from every clock reading.
func (o Options) BaseTS(v uint64) Options {
	if o.err != nil {
		return o
	}
	if v > maxValue(o.tsBits) {
		o.err = invalidOption("BaseTS", ErrBaseExceedsWidth)
		return o
	}
	o.baseTS = v
	return o
}

// Node sets the operator assigned node identifier.
func (o Options) Node(v uint64) Options {
	if o.err != nil {
		return o
	}
	if v > maxValue(o.nodeBits) {
		o.err = invalidOption("Node", ErrNodeExceedsWidth)
		return o
	}
	o.node = v
	return o
}

// TimeFn sets the clock function.
func (o Options) TimeFn(fn func() uint64) Options {
	if fn == nil {
		return o
	}
	return o.Clock(ClockFunc(fn))
}

// Clock sets the time source.
func (o Options) Clock(c Clock) Options {
	if o.err != nil || c == nil {
		return o
	}
	o.clock = c
	return o
}

// OnExhausted sets the sequence exhaustion policy.
func (o Options) OnExhausted(p ExhaustionPolicy) Options {
	if o.err != nil {
		return o
	}
	o.policy = p
	return o
}

// Err returns the first rejected assignment, if any.
func (o Options) Err() error { return o.err }

// Widths returns the timestamp, node and sequence widths.
func (o Options) Widths() (ts, node, seq uint8) { return o.tsBits, o.nodeBits, o.seqBits }

// Base returns the epoch offset.
func (o Options) Base() uint64 { return o.baseTS }

// NodeID returns the node identifier.
func (o Options) NodeID() uint64 { return o.node }

// Policy returns the sequence exhaustion policy.
func (o Options) Policy() ExhaustionPolicy { return o.policy }

// Extract splits id into elapsed ticks, node and sequence using o's widths.
func (o Options) Extract(id ID) (elapsed, node, seq uint64) {
	v := uint64(id)
	elapsed = (v >> (o.nodeBits + o.seqBits)) & maxValue(o.tsBits)
	node = (v >> o.seqBits) & maxValue(o.nodeBits)
	seq = v & maxValue(o.seqBits)
	return elapsed, node, seq
}

// PoolOptions describes a family of generators sharing one timestamp and
// sequence layout, with the middle field split into pool index and node.
type PoolOptions struct {
	tsBits, poolBits, nodeBits, seqBits uint8

	baseTS uint64
	node   uint64
	clock  Clock
	policy ExhaustionPolicy

	err error
}

// DefaultPoolOptions returns 42/4/6/12 bits and otherwise the same defaults
// as DefaultOptions.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		tsBits:   TimestampBits,
		poolBits: PoolBits,
		nodeBits: PoolNodeBits,
		seqBits:  SequenceBits,
		baseTS:   BaseTS,
		clock:    ClockFunc(clock.Millis),
	}
}

// Bits sets timestamp, pool, node and sequence widths.
func (o PoolOptions) Bits(ts, pool, node, seq uint8) PoolOptions {
	if o.err != nil {
		return o
	}
	switch {
	case int(ts)+int(pool)+int(node)+int(seq) != totalBits:
		o.err = invalidOption("Bits", ErrFieldWidthMismatch)
	case o.baseTS > maxValue(ts):
		o.err = invalidOption("Bits", ErrBaseExceedsWidth)
	case o.node > maxValue(node):
		o.err = invalidOption("Bits", ErrNodeExceedsWidth)
	default:
		o.tsBits, o.poolBits, o.nodeBits, o.seqBits = ts, pool, node, seq
	}
	return o
}

// BaseTS sets the epoch offset.
func (o PoolOptions) BaseTS(v uint64) PoolOptions {
	if o.err != nil {
		return o
	}
	if v > maxValue(o.tsBits) {
		o.err = invalidOption("BaseTS", ErrBaseExceedsWidth)
		return o
	}
	o.baseTS = v
	return o
}

// Node sets the node identifier shared by every pooled generator.
func (o PoolOptions) Node(v uint64) PoolOptions {
	if o.err != nil {
		return o
	}
	if v > maxValue(o.nodeBits) {
		o.err = invalidOption("Node", ErrNodeExceedsWidth)
		return o
	}
	o.node = v
	return o
}

// TimeFn sets the clock function.
func (o PoolOptions) TimeFn(fn func() uint64) PoolOptions {
	if fn == nil {
		return o
	}
	return o.Clock(ClockFunc(fn))
}

// Clock sets the time source.
func (o PoolOptions) Clock(c Clock) PoolOptions {
	if o.err != nil || c == nil {
		return o
	}
	o.clock = c
	return o
}

// OnExhausted sets the sequence exhaustion policy.
func (o PoolOptions) OnExhausted(p ExhaustionPolicy) PoolOptions {
	if o.err != nil {
		return o
	}
	o.policy = p
	return o
}

// Err returns the first rejected assignment, if any.
func (o PoolOptions) Err() error { return o.err }

// Widths returns the timestamp, pool, node and sequence widths.
func (o PoolOptions) Widths() (ts, pool, node, seq uint8) {
	return o.tsBits, o.poolBits, o.nodeBits, o.seqBits
}

// MaxSize returns the number of generators the pool field can address.
func (o PoolOptions) MaxSize() uint64 { return maxValue(o.poolBits) + 1 }

// CheckSize validates a pool size against the pool field.
func (o PoolOptions) CheckSize(size int) error {
	if o.err != nil {
		return o.err
	}
	if size <= 0 {
		return invalidOption("Size", ErrInvalidPoolSize)
	}
	if uint64(size) > o.MaxSize() {
		return invalidOption("Size", ErrPoolSizeExceedsWidth)
	}
	return nil
}

// Options recombines the pool layout into standard options whose node field
// spans pool and node bits. The node of the result is 0.
func (o PoolOptions) Options() Options {
	if o.err != nil {
		return Options{err: o.err}
	}
	return DefaultOptions().
		BaseTS(0).
		Bits(o.tsBits, o.poolBits+o.nodeBits, o.seqBits).
		BaseTS(o.baseTS).
		Clock(o.clock).
		OnExhausted(o.policy)
}

// Generator returns options for the pooled generator at index; its node is
// (index << nodeBits) | node, a sub-range disjoint from every other index.
func (o PoolOptions) Generator(index int) Options {
	opts := o.Options()
	if opts.err != nil {
		return opts
	}
	if index < 0 || uint64(index) > maxValue(o.poolBits) {
		return Options{err: invalidOption("Size", ErrPoolSizeExceedsWidth)}
	}
	return opts.Node(uint64(index)<<o.nodeBits | o.node&maxValue(o.nodeBits))
}

// Extract splits id into elapsed ticks, pool index, node and sequence.
func (o PoolOptions) Extract(id ID) (elapsed, pool, node, seq uint64) {
	v := uint64(id)
	elapsed = (v >> (o.poolBits + o.nodeBits + o.seqBits)) & maxValue(o.tsBits)
	poolNode := (v >> o.seqBits) & maxValue(o.poolBits+o.nodeBits)
	pool = (poolNode >> o.nodeBits) & maxValue(o.poolBits)
	node = poolNode & maxValue(o.nodeBits)
	seq = v & maxValue(o.seqBits)
	return elapsed, pool, node, seq
}

// bitmask returns a mask with the low shift bits cleared.
func bitmask(shift uint8) uint64 {
	return ^uint64(0) << shift
}

// maxValue returns the largest value representable in width bits.
func maxValue(width uint8) uint64 {
	return ^bitmask(width)
}
