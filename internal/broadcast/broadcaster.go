package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/saisujan42/Live-Polling-System/internal/adapter/metrics"
)

const (
	commandTimeout = 5 * time.Second  // Actor command timeout
	stopTimeout    = 10 * time.Second // Graceful shutdown timeout
	shutdownReason = "server shutting down"
)

var (
	ErrStopped       = errors.New("broadcaster stopped")
	ErrDuplicateConn = errors.New("connection already registered")
)

// Message is the JSON envelope of every outbound event.
type Message struct {
	Event  string `json:"event"`
	PollID string `json:"pollId,omitempty"`
	Data   any    `json:"data"`
}

// broadcasterCmd is the command interface for the Broadcaster actor.
type broadcasterCmd interface{ isBroadcasterCmd() }

type baseBroadcasterCmd struct{}

func (baseBroadcasterCmd) isBroadcasterCmd() {}

type registerCmd struct {
	baseBroadcasterCmd
	connID       string
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseBroadcasterCmd
	connID string
}

type publishCmd struct {
	baseBroadcasterCmd
	data []byte
}

type sendCmd struct {
	baseBroadcasterCmd
	connID string
	data   []byte
}

type disconnectCmd struct {
	baseBroadcasterCmd
	connID string
	reason string
}

type getClientCountCmd struct {
	baseBroadcasterCmd
	replyChannel chan int
}

type stopCmd struct {
	baseBroadcasterCmd
}

// Broadcaster manages WebSocket connections keyed by connection id and delivers events to
// all of them or to a single one.
type Broadcaster struct {
	cmdCh       chan broadcasterCmd
	clock       clockwork.Clock
	clients     map[string]*clientWriter
	metrics     *metrics.WebSocketMetrics
	done        chan struct{}
	stopTimeout time.Duration
}

// NewBroadcaster creates a broadcaster and starts its goroutine. wsMetrics may be nil.
func NewBroadcaster(clock clockwork.Clock, wsMetrics *metrics.WebSocketMetrics) *Broadcaster {
	b := &Broadcaster{
		cmdCh:       make(chan broadcasterCmd, 256),
		clock:       clock,
		clients:     make(map[string]*clientWriter),
		metrics:     wsMetrics,
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
	}
	go b.run()
	return b
}

// Register adds a connection under connID.
func (b *Broadcaster) Register(connID string, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	if !b.send(registerCmd{connID: connID, connection: conn, errorChannel: errCh}) {
		return ErrStopped
	}

	// Use timeout to prevent blocking forever if broadcaster is stuck
	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-b.done:
		return ErrStopped
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection and closes it. Unknown ids are ignored.
func (b *Broadcaster) Unregister(connID string) {
	b.send(unregisterCmd{connID: connID})
}

// Broadcast sends the event to every registered connection.
func (b *Broadcaster) Broadcast(event string, payload any) {
	data, ok := encode(Message{Event: event, Data: payload})
	if !ok {
		return
	}
	b.send(publishCmd{data: data})
}

// BroadcastPoll sends a poll-scoped event to every registered connection.
func (b *Broadcaster) BroadcastPoll(event, pollID string, payload any) {
	data, ok := encode(Message{Event: event, PollID: pollID, Data: payload})
	if !ok {
		return
	}
	b.send(publishCmd{data: data})
}

// SendTo sends the event to a single connection.
func (b *Broadcaster) SendTo(connID, event string, payload any) {
	data, ok := encode(Message{Event: event, Data: payload})
	if !ok {
		return
	}
	b.send(sendCmd{connID: connID, data: data})
}

// Disconnect removes the connection, flushes anything already queued for it and closes it
// with a close frame carrying reason.
func (b *Broadcaster) Disconnect(connID, reason string) {
	b.send(disconnectCmd{connID: connID, reason: reason})
}

// GetClientCount returns the number of registered connections.
// Returns -1 if the command times out or the broadcaster is stopped.
func (b *Broadcaster) GetClientCount() int {
	replyCh := make(chan int, 1)
	if !b.send(getClientCountCmd{replyChannel: replyCh}) {
		return -1
	}

	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-b.done:
		return -1
	case <-timer.Chan():
		slog.Warn("GetClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the broadcaster, closing all client connections.
// Blocks until the broadcaster goroutine has exited or timeout is reached.
func (b *Broadcaster) Stop() {
	if !b.send(stopCmd{}) {
		return
	}

	timeout := b.clock.NewTimer(b.stopTimeout)
	defer timeout.Stop()

	select {
	case <-b.done:
		slog.Info("Broadcaster stopped gracefully")
	case <-timeout.Chan():
		slog.Warn("Broadcaster stop timeout exceeded", "timeout", b.stopTimeout)
	}
}

func (b *Broadcaster) send(cmd broadcasterCmd) bool {
	select {
	case <-b.done:
		return false
	default:
	}

	select {
	case b.cmdCh <- cmd:
		return true
	case <-b.done:
		return false
	}
}

func encode(msg Message) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "event", msg.Event, "error", err)
		return nil, false
	}
	return data, true
}

func (b *Broadcaster) run() {
	defer close(b.done)

	// Panic recovery wrapper
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Broadcaster panic recovered", "panic", r)
			b.closeAllClients("broadcaster panic")
		}
	}()

	for cmd := range b.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			b.handleRegister(c)
		case unregisterCmd:
			b.handleUnregister(c.connID)
		case publishCmd:
			b.handlePublish(c.data)
		case sendCmd:
			b.handleSend(c)
		case disconnectCmd:
			b.handleDisconnect(c)
		case getClientCountCmd:
			c.replyChannel <- len(b.clients)
		case stopCmd:
			b.handleStop()
			return
		default:
			slog.Warn("Broadcaster received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (b *Broadcaster) handleRegister(c registerCmd) {
	if _, exists := b.clients[c.connID]; exists {
		c.errorChannel <- ErrDuplicateConn
		return
	}

	b.clients[c.connID] = newClientWriter(c.connection, b.clock)
	if b.metrics != nil {
		b.metrics.ActiveConnections.Inc()
	}

	slog.Debug("Client registered", "conn_id", c.connID, "total_clients", len(b.clients))
	c.errorChannel <- nil
}

func (b *Broadcaster) handleUnregister(connID string) {
	cw, exists := b.clients[connID]
	if !exists {
		return
	}

	cw.stop()
	b.remove(connID)
	slog.Debug("Client unregistered", "conn_id", connID, "remaining_clients", len(b.clients))
}

func (b *Broadcaster) handleDisconnect(c disconnectCmd) {
	cw, exists := b.clients[c.connID]
	if !exists {
		return
	}

	b.remove(c.connID)
	// Flushing may wait on the write deadline; keep it off the actor goroutine.
	go cw.stopGraceful(c.reason)
	slog.Debug("Client disconnected by server", "conn_id", c.connID, "reason", c.reason)
}

func (b *Broadcaster) handlePublish(data []byte) {
	var slow []string
	for connID, cw := range b.clients {
		if !b.enqueue(cw, data) {
			slow = append(slow, connID)
		}
	}
	b.evict(slow)
}

func (b *Broadcaster) handleSend(c sendCmd) {
	cw, exists := b.clients[c.connID]
	if !exists {
		return
	}
	if !b.enqueue(cw, c.data) {
		b.evict([]string{c.connID})
	}
}

func (b *Broadcaster) enqueue(cw *clientWriter, data []byte) bool {
	select {
	case cw.sendChannel <- data:
		if b.metrics != nil {
			b.metrics.MessagesPublished.Inc()
		}
		return true
	default:
		return false
	}
}

func (b *Broadcaster) evict(slow []string) {
	for _, connID := range slow {
		slog.Warn("Disconnecting slow client", "conn_id", connID)
		if b.metrics != nil {
			b.metrics.SlowClientsEvicted.Inc()
		}
		b.handleUnregister(connID)
	}
}

func (b *Broadcaster) remove(connID string) {
	delete(b.clients, connID)
	if b.metrics != nil {
		b.metrics.ActiveConnections.Dec()
	}
}

func (b *Broadcaster) handleStop() {
	total := len(b.clients)
	slog.Info("Broadcaster shutting down", "total_clients", total)

	b.closeAllClients(shutdownReason)

	slog.Info("Broadcaster shutdown complete", "disconnected_clients", total)
}

// closeAllClients closes all client connections with the given reason.
// Used during panic recovery and graceful shutdown.
func (b *Broadcaster) closeAllClients(reason string) {
	for connID, cw := range b.clients {
		cw.stopGraceful(reason)
		b.remove(connID)
	}
}
