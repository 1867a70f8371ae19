// Package idgen issues correlation ids for queued generate requests so that
// worker and actor log lines can be tied back to a caller.
package idgen
