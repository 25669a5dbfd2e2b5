// Package broadcast implements the WebSocket hub using the actor pattern.
//
// The Broadcaster owns every live connection and fans events out to them. It uses a single
// goroutine + command channel (no mutexes). Per-connection write goroutines handle slow
// clients: a full send buffer evicts the client instead of blocking the hub.
package broadcast
