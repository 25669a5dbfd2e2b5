// Package poll holds a single poll: its immutable definition plus the mutable tally and
// OPEN/CLOSED lifecycle. A Poll is not safe for concurrent use; the engine owns it.
package poll
