// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (poll.go, events.go, broadcaster.go, errors.go) hold shared value
// types and the ports other packages implement. No implementation code - just contracts.
package domain
