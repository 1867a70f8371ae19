// Package messaging defines the queue contracts used to hand generate
// requests to dispatch workers and to the actor goroutine.
package messaging
