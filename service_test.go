package frostflake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/frostflake/flake"
	"github.com/viant/frostflake/internal/clock"
	"github.com/viant/frostflake/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestService_Strategies(t *testing.T) {
	testCases := []struct {
		description string
		strategy    string
		size        int
		expectPool  bool
	}{
		{description: "locked", strategy: StrategyLocked},
		{description: "actor", strategy: StrategyActor},
		{description: "dispatch", strategy: StrategyDispatch, size: 1, expectPool: true},
		{description: "checkout", strategy: StrategyCheckout, size: 1, expectPool: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = testCase.strategy
			if testCase.size > 0 {
				cfg.Size = testCase.size
			}
			cfg.Node = 5
			srv, err := New(WithConfig(cfg), WithClock(clock.Fixed(flake.BaseTS+500)))
			require.NoError(t, err)
			defer srv.Close()
			assert.Equal(t, testCase.strategy, srv.Strategy())

			ctx := context.Background()
			for i := uint64(0); i < 3; i++ {
				id, err := srv.Generate(ctx)
				require.NoError(t, err)
				fields := srv.Extract(id)
				assert.Equal(t, Fields{Elapsed: 500, Timestamp: flake.BaseTS + 500, Pool: 0, Node: 5, Sequence: i}, fields)
				if !testCase.expectPool {
					assert.Equal(t, flake.ID(500<<22|5<<12|i), id)
				}
			}
			assert.Equal(t, uint64(3), srv.Stats().Generated)
			require.NoError(t, srv.Close())
			require.NoError(t, srv.Close())
		})
	}
}

func TestService_Defaults(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)
	defer srv.Close()
	assert.Equal(t, StrategyLocked, srv.Strategy())
	assert.Equal(t, DefaultConfig(), srv.Config())

	id, err := srv.Generate(context.Background())
	require.NoError(t, err)
	assert.Greater(t, srv.Extract(id).Timestamp, flake.BaseTS)
}

func TestService_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyCheckout
	cfg.Size = 0
	_, err := New(WithConfig(cfg))
	assert.True(t, errors.Is(err, flake.ErrInvalidPoolSize))
}

func TestService_Unique(t *testing.T) {
	for _, strategy := range []string{StrategyLocked, StrategyDispatch, StrategyCheckout, StrategyActor} {
		t.Run(strategy, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Strategy = strategy
			cfg.Size = 4
			cfg.OnExhausted = "wait"
			srv, err := New(WithConfig(cfg))
			require.NoError(t, err)
			defer srv.Close()

			ctx := context.Background()
			var mu sync.Mutex
			seen := map[flake.ID]bool{}
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 250; j++ {
						id, err := srv.Generate(ctx)
						if !assert.NoError(t, err) {
							return
						}
						mu.Lock()
						assert.False(t, seen[id])
						seen[id] = true
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Len(t, seen, 2000)
		})
	}
}

func TestService_Fault(t *testing.T) {
	logger, hook := test.NewNullLogger()
	srv, err := New(WithClock(clock.Fixed(flake.BaseTS)), WithLogger(logger))
	require.NoError(t, err)
	defer srv.Close()

	_, err = srv.Generate(context.Background())
	assert.True(t, errors.Is(err, flake.ErrClockBeforeEpoch))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, StrategyLocked, entry.Data["strategy"])
	assert.Equal(t, metrics.KindClockBeforeEpoch, entry.Data["kind"])

	stats := srv.Stats()
	assert.Equal(t, uint64(0), stats.Generated)
	assert.Equal(t, uint64(1), stats.Faults[metrics.KindClockBeforeEpoch])
}

func TestService_Collector(t *testing.T) {
	srv, err := New(WithClock(clock.Script(flake.BaseTS+10, flake.BaseTS+9)))
	require.NoError(t, err)
	defer srv.Close()

	ctx := context.Background()
	_, err = srv.Generate(ctx)
	require.NoError(t, err)
	_, err = srv.Generate(ctx)
	assert.True(t, errors.Is(err, flake.ErrClockRegression))

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(srv.Collector()))
	families, err := registry.Gather()
	require.NoError(t, err)

	var generated, regressions float64
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "strategy" {
					assert.Equal(t, StrategyLocked, label.GetValue())
				}
				if label.GetName() == "kind" && label.GetValue() == metrics.KindClockRegression {
					regressions = metric.GetCounter().GetValue()
				}
			}
			if family.GetName() == "frostflake_ids_generated_total" {
				generated = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, generated)
	assert.Equal(t, 1.0, regressions)
}

func TestService_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	script := clock.Script(flake.BaseTS+10, flake.BaseTS+9)
	srv, err := New(WithClock(script), WithTracingExporter("frostflake", "test", exporter))
	require.NoError(t, err)

	ctx := context.Background()
	id, err := srv.Generate(ctx)
	require.NoError(t, err)
	_, err = srv.Generate(ctx)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.NoError(t, srv.Close())
	require.Len(t, spans, 2)
	assert.Equal(t, "frostflake.generate", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("id", id.String()))
	assert.Contains(t, spans[0].Attributes, attribute.String("strategy", StrategyLocked))
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}

func TestService_ClosedDispatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyDispatch
	cfg.Size = 2
	srv, err := New(WithConfig(cfg), WithLogger(logrus.New()))
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	_, err = srv.Generate(context.Background())
	assert.True(t, errors.Is(err, flake.ErrDeliveryFailed))
	assert.Equal(t, uint64(1), srv.Stats().Faults[metrics.KindDeliveryFailed])
}

func TestService_TracingFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Output = filepath.Join(t.TempDir(), "spans.json")
	srv, err := New(WithConfig(cfg))
	require.NoError(t, err)

	_, err = srv.Generate(context.Background())
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	data, err := os.ReadFile(cfg.Tracing.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frostflake.generate")
}
