// Package tracing wraps OpenTelemetry so that generator services can emit a
// span per identifier request. Applications that do not enable tracing never
// construct a provider and pay only for a no-op tracer.
package tracing
