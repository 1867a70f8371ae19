// Package dispatch hosts a fixed set of workers, each owning a private
// generator bound to a disjoint pool index. Callers hand requests to a shared
// unbounded queue; whichever worker dequeues a request generates the id and
// replies on the request's single-use channel.
//
// Identifiers are unique across workers but only ordered per worker.
package dispatch
