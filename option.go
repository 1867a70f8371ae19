package frostflake

import (
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures Service
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithClock overrides the clock selected by Config.Unit.
func WithClock(now func() uint64) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger shared with the strategy workers.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracing enables the stdout span exporter. If outputFile is empty spans
// are written to os.Stdout; otherwise to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingConfig = &TracingConfig{Enabled: true, Service: serviceName, Version: serviceVersion, Output: outputFile}
	}
}

// WithTracingExporter enables tracing through a custom SpanExporter, for
// example OTLP or an in-memory exporter in tests.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingConfig = &TracingConfig{Enabled: true, Service: serviceName, Version: serviceVersion}
		s.exporter = exporter
	}
}
