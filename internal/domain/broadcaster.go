package domain

// Broadcaster delivers events to connected clients. Delivery is best-effort and
// fire-and-forget: implementations must not block the caller on slow clients.
type Broadcaster interface {
	// Broadcast sends the event to every connection.
	Broadcast(event string, payload any)
	// BroadcastPoll sends a poll-scoped event to every connection.
	BroadcastPoll(event, pollID string, payload any)
	// SendTo sends the event to a single connection.
	SendTo(connID, event string, payload any)
	// Disconnect flushes pending messages to the connection and closes it.
	Disconnect(connID, reason string)
}
