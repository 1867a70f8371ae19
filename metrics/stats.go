package metrics

import (
	"errors"

	"github.com/viant/frostflake/flake"
	"go.uber.org/atomic"
)

// Fault kinds reported by Snapshot and the Prometheus collector.
const (
	KindClockBeforeEpoch  = "clock_before_epoch"
	KindClockRegression   = "clock_regression"
	KindSequenceExhausted = "sequence_exhausted"
	KindTimestampOverflow = "timestamp_overflow"
	KindDeliveryFailed    = "delivery_failed"
	KindOther             = "other"
)

// Kinds lists every fault kind in reporting order.
var Kinds = []string{
	KindClockBeforeEpoch,
	KindClockRegression,
	KindSequenceExhausted,
	KindTimestampOverflow,
	KindDeliveryFailed,
	KindOther,
}

// Stats counts generated identifiers and faults.
type Stats struct {
	generated atomic.Uint64
	faults    map[string]*atomic.Uint64
}

// NewStats creates zeroed counters.
func NewStats() *Stats {
	s := &Stats{faults: make(map[string]*atomic.Uint64, len(Kinds))}
	for _, kind := range Kinds {
		s.faults[kind] = atomic.NewUint64(0)
	}
	return s
}

// Observe records the outcome of one Generate call.
func (s *Stats) Observe(err error) {
	if s == nil {
		return
	}
	if err == nil {
		s.generated.Inc()
		return
	}
	s.faults[KindOf(err)].Inc()
}

// KindOf classifies a generate error.
func KindOf(err error) string {
	switch {
	case errors.Is(err, flake.ErrClockBeforeEpoch):
		return KindClockBeforeEpoch
	case errors.Is(err, flake.ErrClockRegression):
		return KindClockRegression
	case errors.Is(err, flake.ErrSequenceExhausted):
		return KindSequenceExhausted
	case errors.Is(err, flake.ErrTimestampOverflow):
		return KindTimestampOverflow
	case errors.Is(err, flake.ErrDeliveryFailed):
		return KindDeliveryFailed
	}
	return KindOther
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Generated uint64
	Faults    map[string]uint64
}

// Snapshot returns a copy of the counters suitable for read-only inspection.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	ret := Snapshot{Generated: s.generated.Load(), Faults: make(map[string]uint64, len(s.faults))}
	for kind, counter := range s.faults {
		ret.Faults[kind] = counter.Load()
	}
	return ret
}

// TotalFaults sums every fault kind.
func (s Snapshot) TotalFaults() uint64 {
	var total uint64
	for _, v := range s.Faults {
		total += v
	}
	return total
}
