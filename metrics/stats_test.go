package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/frostflake/flake"
)

func TestStats_Observe(t *testing.T) {
	stats := NewStats()
	stats.Observe(nil)
	stats.Observe(nil)
	stats.Observe(&flake.GenerateError{Err: flake.ErrClockRegression})
	stats.Observe(fmt.Errorf("dispatch: %w", flake.ErrDeliveryFailed))
	stats.Observe(errors.New("boom"))

	snapshot := stats.Snapshot()
	assert.Equal(t, uint64(2), snapshot.Generated)
	assert.Equal(t, uint64(1), snapshot.Faults[KindClockRegression])
	assert.Equal(t, uint64(1), snapshot.Faults[KindDeliveryFailed])
	assert.Equal(t, uint64(1), snapshot.Faults[KindOther])
	assert.Equal(t, uint64(3), snapshot.TotalFaults())

	var nilStats *Stats
	nilStats.Observe(nil)
	assert.Equal(t, uint64(0), nilStats.Snapshot().Generated)
}

func TestKindOf(t *testing.T) {
	var testCases = []struct {
		err    error
		expect string
	}{
		{&flake.GenerateError{Err: flake.ErrClockBeforeEpoch}, KindClockBeforeEpoch},
		{&flake.GenerateError{Err: flake.ErrSequenceExhausted}, KindSequenceExhausted},
		{&flake.GenerateError{Err: flake.ErrTimestampOverflow}, KindTimestampOverflow},
		{errors.New("x"), KindOther},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, KindOf(testCase.err))
	}
}

func TestCollector(t *testing.T) {
	stats := NewStats()
	stats.Observe(nil)
	stats.Observe(&flake.GenerateError{Err: flake.ErrSequenceExhausted})

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewCollector(stats, prometheus.Labels{"strategy": "locked"})))

	families, err := registry.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			key := family.GetName()
			for _, label := range metric.GetLabel() {
				if label.GetName() == "kind" {
					key += "/" + label.GetValue()
				}
			}
			values[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, values["frostflake_ids_generated_total"])
	assert.Equal(t, 1.0, values["frostflake_faults_total/"+KindSequenceExhausted])
	assert.Equal(t, 0.0, values["frostflake_faults_total/"+KindClockRegression])
	assert.Len(t, values, 1+len(Kinds))
}
