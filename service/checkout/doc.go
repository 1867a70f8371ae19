// Package checkout keeps a fixed set of generators in a FIFO guarded by a
// mutex and a condition variable. A caller borrows one generator exclusively
// through a Lease and returns it with Release; when every generator is
// borrowed, further Acquire calls block until one comes back.
//
//	lease := pool.Acquire()
//	defer lease.Release()
//	id, err := lease.Generate()
package checkout
