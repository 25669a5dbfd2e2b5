// Package engine implements the poll lifecycle and live-aggregation engine.
//
// A single goroutine owns the roster, every poll and every deadline timer. Public methods
// send commands over a channel, so votes, joins, disconnects and deadline callbacks are
// applied one at a time. Deadline timers only enqueue a finalize command; finalizing is a
// check-and-set on poll state, so a timer that fires after early finalization is a no-op.
package engine
