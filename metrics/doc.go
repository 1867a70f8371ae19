// Package metrics keeps generation and fault counters for a generator
// service and exposes them to Prometheus. Counters are updated atomically and
// are safe for concurrent use.
package metrics
