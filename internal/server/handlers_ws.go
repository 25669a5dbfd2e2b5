package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/saisujan42/Live-Polling-System/internal/domain"
	"github.com/saisujan42/Live-Polling-System/internal/platform/correlation"
	apperrors "github.com/saisujan42/Live-Polling-System/internal/platform/errors"
)

const maxMessageSize = 64 * 1024

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()
	if ok, reason := s.limits.Acquire(ip); !ok {
		s.metrics.WebSocket.ConnectionsRejected.WithLabelValues(string(reason)).Inc()
		slog.WarnContext(c.Request().Context(), "WebSocket connection rejected", "ip", ip, "reason", reason)
		return apperrors.RateLimitedError("too many connections").WithField("reason", string(reason))
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		s.limits.Release(ip)
		slog.DebugContext(c.Request().Context(), "WebSocket upgrade failed", "error", err)
		return nil
	}
	conn.SetReadLimit(maxMessageSize)

	connID := uuid.NewString()
	ctx := correlation.WithConnection(context.WithoutCancel(c.Request().Context()), connID)

	if err := s.hub.Register(connID, conn); err != nil {
		s.limits.Release(ip)
		_ = conn.Close()
		slog.WarnContext(ctx, "Failed to register connection", "error", err)
		return nil
	}

	var once sync.Once
	disconnect := func() {
		once.Do(func() {
			s.engine.Leave(connID)
			s.hub.Unregister(connID)
			s.limits.Release(ip)
			slog.DebugContext(ctx, "Connection closed")
		})
	}
	defer disconnect()

	slog.DebugContext(ctx, "Connection opened", "ip", ip)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "Connection read failed", "error", err)
			}
			return nil
		}
		s.dispatch(ctx, connID, data)
	}
}

// dispatch decodes one inbound frame and forwards it to the engine. Malformed frames and
// unknown events are dropped.
func (s *Server) dispatch(ctx context.Context, connID string, data []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.DebugContext(ctx, "Dropping malformed frame", "error", err)
		return
	}

	switch env.Event {
	case domain.InboundJoin, domain.InboundJoinLegacy:
		var p joinPayload
		if !decode(ctx, env, &p) {
			return
		}
		s.engine.Join(connID, p.identity())

	case domain.InboundCreatePoll:
		var p createPollPayload
		if !decode(ctx, env, &p) {
			return
		}
		pollID, err := s.engine.CreatePoll(ctx, p.request())
		if err != nil {
			slog.WarnContext(ctx, "Failed to create poll", "error", err)
			return
		}
		slog.InfoContext(ctx, "Poll created", "poll_id", pollID)

	case domain.InboundSubmitVote, domain.InboundSubmitLegacy:
		var p votePayload
		if !decode(ctx, env, &p) {
			return
		}
		s.engine.SubmitVote(p.PollID, p.identity(), p.optionText())

	case domain.InboundModerateRemove, domain.InboundKickOutLegacy:
		identity, err := decodeTarget(env.Data)
		if err != nil {
			slog.DebugContext(ctx, "Dropping malformed payload", "event", env.Event, "error", err)
			return
		}
		s.engine.Kick(identity)

	case domain.InboundChatMessage:
		var msg domain.ChatMessage
		if !decode(ctx, env, &msg) {
			return
		}
		s.engine.RelayChat(msg)

	default:
		slog.DebugContext(ctx, "Dropping unknown event", "event", env.Event)
	}
}

func decode(ctx context.Context, env inboundEnvelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		slog.DebugContext(ctx, "Dropping malformed payload", "event", env.Event, "error", err)
		return false
	}
	return true
}
