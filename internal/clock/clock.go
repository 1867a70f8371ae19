package clock

import (
	"sync"
	"time"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Millis returns milliseconds elapsed since the Unix epoch.
func Millis() uint64 { return uint64(NowFunc().UnixMilli()) }

// Seconds returns seconds elapsed since the Unix epoch.
func Seconds() uint64 { return uint64(NowFunc().Unix()) }

// Unit returns the clock function for the supplied unit name ("ms" or "s").
func Unit(name string) (func() uint64, bool) {
	switch name {
	case "", "ms", "millisecond", "milliseconds":
		return Millis, true
	case "s", "second", "seconds":
		return Seconds, true
	}
	return nil, false
}

// Fixed returns a clock that always reports v.
func Fixed(v uint64) func() uint64 {
	return func() uint64 { return v }
}

// Script returns a clock replaying readings in order; the last reading
// repeats once the script is exhausted. It is safe for concurrent use.
func Script(readings ...uint64) func() uint64 {
	var mu sync.Mutex
	i := 0
	return func() uint64 {
		mu.Lock()
		defer mu.Unlock()
		if len(readings) == 0 {
			return 0
		}
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v
	}
}

// Manual is a clock advanced explicitly by tests.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

// NewManual creates a Manual clock starting at now.
func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

// Now returns the current reading.
func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d ticks.
func (m *Manual) Advance(d uint64) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

// Set moves the clock to v, backwards included.
func (m *Manual) Set(v uint64) {
	m.mu.Lock()
	m.now = v
	m.mu.Unlock()
}
