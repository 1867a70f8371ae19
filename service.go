package frostflake

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/viant/frostflake/flake"
	"github.com/viant/frostflake/metrics"
	"github.com/viant/frostflake/service/actor"
	"github.com/viant/frostflake/service/checkout"
	"github.com/viant/frostflake/service/dispatch"
	"github.com/viant/frostflake/service/locked"
	"github.com/viant/frostflake/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type generator interface {
	Generate(ctx context.Context) (flake.ID, error)
}

// Fields is a decoded identifier. Pool is always 0 for the locked and actor
// strategies, whose node field spans the pool bits.
type Fields struct {
	Elapsed   uint64 `json:"elapsed"`
	Timestamp uint64 `json:"timestamp"`
	Pool      uint64 `json:"pool"`
	Node      uint64 `json:"node"`
	Sequence  uint64 `json:"sequence"`
}

// Service generates identifiers with the strategy named by its Config.
type Service struct {
	config        *Config
	now           func() uint64
	logger        logrus.FieldLogger
	tracingConfig *TracingConfig
	exporter      sdktrace.SpanExporter

	generator generator
	extract   func(id flake.ID) Fields
	tracer    *tracing.Tracer
	stats     *metrics.Stats
	collector *metrics.Collector
	closeOnce sync.Once
}

// New creates a Service and starts the strategy workers, if any.
func New(options ...Option) (*Service, error) {
	s := &Service{logger: logrus.StandardLogger(), stats: metrics.NewStats()}
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := s.initGenerator(); err != nil {
		return nil, err
	}
	if err := s.initTracing(); err != nil {
		_ = s.closeGenerator()
		return nil, err
	}
	s.collector = metrics.NewCollector(s.stats, prometheus.Labels{"strategy": s.config.Strategy})
	return s, nil
}

func (s *Service) initGenerator() error {
	cfg := s.config
	logger := s.logger.WithField("strategy", cfg.Strategy)
	switch cfg.Strategy {
	case StrategyDispatch, StrategyCheckout:
		opts := cfg.poolOptions(s.now)
		s.extract = func(id flake.ID) Fields {
			elapsed, pool, node, seq := opts.Extract(id)
			return Fields{Elapsed: elapsed, Timestamp: elapsed + cfg.BaseTS, Pool: pool, Node: node, Sequence: seq}
		}
		var err error
		if cfg.Strategy == StrategyDispatch {
			s.generator, err = dispatch.New(cfg.Size, opts, dispatch.WithLogger(logger))
		} else {
			s.generator, err = checkout.New(cfg.Size, opts)
		}
		return err
	default:
		opts := cfg.options(s.now)
		s.extract = func(id flake.ID) Fields {
			elapsed, node, seq := opts.Extract(id)
			return Fields{Elapsed: elapsed, Timestamp: elapsed + cfg.BaseTS, Node: node, Sequence: seq}
		}
		var err error
		if cfg.Strategy == StrategyActor {
			s.generator, err = actor.Spawn(context.Background(), opts, actor.WithCapacity(cfg.Capacity), actor.WithLogger(logger))
		} else {
			s.generator, err = locked.New(opts)
		}
		return err
	}
}

func (s *Service) initTracing() error {
	tracingConfig := s.tracingConfig
	if tracingConfig == nil {
		tracingConfig = &s.config.Tracing
	}
	if !tracingConfig.Enabled {
		return nil
	}
	var err error
	if s.exporter != nil {
		s.tracer, err = tracing.New(tracingConfig.Service, tracingConfig.Version, s.exporter)
	} else {
		s.tracer, err = tracing.NewStdout(tracingConfig.Service, tracingConfig.Version, tracingConfig.Output)
	}
	if err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}
	return nil
}

// Generate returns the next identifier.
func (s *Service) Generate(ctx context.Context) (flake.ID, error) {
	ctx, span := s.tracer.StartSpan(ctx, "frostflake.generate", "INTERNAL")
	id, err := s.generator.Generate(ctx)
	s.stats.Observe(err)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"strategy": s.config.Strategy,
			"kind":     metrics.KindOf(err),
		}).Warn("failed to generate id")
	}
	span.WithAttributes(map[string]string{"strategy": s.config.Strategy})
	if err == nil {
		span.WithAttributes(map[string]string{"id": id.String()})
	}
	tracing.EndSpan(span, err)
	return id, err
}

// Extract decodes id using the configured layout.
func (s *Service) Extract(id flake.ID) Fields {
	return s.extract(id)
}

// Strategy returns the name of the active strategy.
func (s *Service) Strategy() string {
	return s.config.Strategy
}

// Config returns the active configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Stats returns a snapshot of the generation counters.
func (s *Service) Stats() metrics.Snapshot {
	return s.stats.Snapshot()
}

// Collector exposes the counters to a Prometheus registry.
func (s *Service) Collector() prometheus.Collector {
	return s.collector
}

// Close stops the strategy workers and flushes pending spans. It is safe to
// call more than once.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.closeGenerator()
		if tErr := s.tracer.Shutdown(context.Background()); err == nil {
			err = tErr
		}
	})
	return err
}

func (s *Service) closeGenerator() error {
	if closer, ok := s.generator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
