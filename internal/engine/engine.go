package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/saisujan42/Live-Polling-System/internal/adapter/metrics"
	"github.com/saisujan42/Live-Polling-System/internal/domain"
	"github.com/saisujan42/Live-Polling-System/internal/poll"
	"github.com/saisujan42/Live-Polling-System/internal/roster"
)

const (
	commandBufferSize = 512

	// DefaultTimeLimit applies when a poll is created without a positive time limit.
	DefaultTimeLimit = 60 * time.Second
	// DefaultCreator applies when a poll is created without a creator identity.
	DefaultCreator = "teacher"

	removalReason = "removed by moderator"
)

// Config controls engine defaults. Zero values fall back to DefaultTimeLimit and DefaultCreator.
type Config struct {
	DefaultTimeLimit time.Duration
	DefaultCreator   string
}

type removalNotice struct {
	Identity string `json:"identity"`
	Reason   string `json:"reason"`
}

// Engine owns the roster and all polls. All state is touched only by the run goroutine.
type Engine struct {
	cmdCh       chan engineCmd
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopOnce    sync.Once
	clock       clockwork.Clock
	broadcaster domain.Broadcaster
	metrics     *metrics.PollMetrics
	newID       func() string

	defaultTimeLimit time.Duration
	defaultCreator   string

	roster    *roster.Roster
	polls     map[string]*poll.Poll
	byCreator map[string][]string
	deadlines map[string]clockwork.Timer
}

// NewEngine creates the engine and starts its goroutine. pollMetrics may be nil.
func NewEngine(cfg Config, broadcaster domain.Broadcaster, clock clockwork.Clock, pollMetrics *metrics.PollMetrics) *Engine {
	if cfg.DefaultTimeLimit <= 0 {
		cfg.DefaultTimeLimit = DefaultTimeLimit
	}
	if cfg.DefaultCreator == "" {
		cfg.DefaultCreator = DefaultCreator
	}

	e := &Engine{
		cmdCh:            make(chan engineCmd, commandBufferSize),
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
		clock:            clock,
		broadcaster:      broadcaster,
		metrics:          pollMetrics,
		newID:            uuid.NewString,
		defaultTimeLimit: cfg.DefaultTimeLimit,
		defaultCreator:   cfg.DefaultCreator,
		roster:           roster.New(),
		polls:            make(map[string]*poll.Poll),
		byCreator:        make(map[string][]string),
		deadlines:        make(map[string]clockwork.Timer),
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.doneCh)

	for {
		select {
		case cmd := <-e.cmdCh:
			e.handle(cmd)
		case <-e.stopCh:
			e.handleStop()
			return
		}
	}
}

func (e *Engine) handle(cmd engineCmd) {
	switch c := cmd.(type) {
	case cmdJoin:
		e.handleJoin(c)
	case cmdLeave:
		e.handleLeave(c)
	case cmdKick:
		e.handleKick(c)
	case cmdCreatePoll:
		c.replyCh <- e.handleCreatePoll(c.req)
	case cmdSubmitVote:
		e.handleSubmitVote(c)
	case cmdFinalize:
		e.finalize(c.pollID, c.reason)
	case cmdChat:
		e.broadcaster.Broadcast(domain.EventChatMessage, c.msg)
	case cmdListPolls:
		c.replyCh <- e.handleListPolls(c.creator)
	case cmdGetPoll:
		p, ok := e.polls[c.pollID]
		if !ok {
			c.replyCh <- pollResult{}
			break
		}
		c.replyCh <- pollResult{summary: p.Summary(), ok: true}
	case cmdRoster:
		c.replyCh <- e.roster.Identities()
	default:
		slog.Warn("Engine received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
	}
}

func (e *Engine) handleJoin(c cmdJoin) {
	if !e.roster.Join(c.connID, c.identity) {
		return
	}
	slog.Debug("Participant joined", "conn_id", c.connID, "identity", c.identity, "participants", e.roster.Size())
	e.publishRoster()
}

func (e *Engine) handleLeave(c cmdLeave) {
	identity, _ := e.roster.IdentityOf(c.connID)
	if !e.roster.Leave(c.connID) {
		return
	}
	slog.Debug("Participant left", "conn_id", c.connID, "identity", identity, "participants", e.roster.Size())
	e.publishRoster()
}

func (e *Engine) handleKick(c cmdKick) {
	conns := e.roster.Remove(c.identity)
	if conns == nil {
		return
	}

	notice := removalNotice{Identity: c.identity, Reason: removalReason}
	for _, connID := range conns {
		e.broadcaster.SendTo(connID, domain.EventRemovedFromSession, notice)
		e.broadcaster.Disconnect(connID, removalReason)
	}

	if e.metrics != nil {
		e.metrics.Removals.Inc()
	}
	slog.Info("Participant removed", "identity", c.identity, "connections", len(conns))
	e.publishRoster()
}

func (e *Engine) handleCreatePoll(req domain.CreatePollRequest) string {
	if req.TimeLimitSeconds <= 0 {
		req.TimeLimitSeconds = int(e.defaultTimeLimit / time.Second)
	}
	if req.CreatorIdentity == "" {
		req.CreatorIdentity = e.defaultCreator
	}

	id := e.newID()
	p := poll.New(id, req, e.clock.Now())
	e.polls[id] = p
	e.byCreator[p.Creator()] = append(e.byCreator[p.Creator()], id)

	e.deadlines[id] = e.clock.AfterFunc(p.TimeLimit(), func() {
		e.send(cmdFinalize{pollID: id, reason: domain.FinalizeDeadline})
	})

	if e.metrics != nil {
		e.metrics.PollsCreated.Inc()
		e.metrics.OpenPolls.Inc()
	}
	slog.Info("Poll created", "poll_id", id, "creator", p.Creator(), "options", len(req.Options), "time_limit", p.TimeLimit())

	e.broadcaster.Broadcast(domain.EventPollCreated, p.Definition())
	return id
}

func (e *Engine) handleSubmitVote(c cmdSubmitVote) {
	p, ok := e.polls[c.pollID]
	if !ok || !p.Vote(c.identity, c.optionText) {
		e.countVote("ignored")
		slog.Debug("Vote ignored", "poll_id", c.pollID, "identity", c.identity, "option", c.optionText)
		return
	}
	e.countVote("accepted")

	e.broadcaster.BroadcastPoll(domain.EventPollResults, p.ID(), p.Tally())

	participants := e.roster.Size()
	if participants > 0 && p.AnsweredCount() >= participants {
		e.finalize(p.ID(), domain.FinalizeAllAnswered)
	}
}

// finalize closes the poll and publishes the final tally. Calling it on a closed or
// unknown poll does nothing.
func (e *Engine) finalize(pollID string, reason domain.FinalizeReason) {
	p, ok := e.polls[pollID]
	if !ok || !p.Close() {
		return
	}

	if timer, ok := e.deadlines[pollID]; ok {
		timer.Stop()
		delete(e.deadlines, pollID)
	}

	if e.metrics != nil {
		e.metrics.OpenPolls.Dec()
		e.metrics.Finalizations.WithLabelValues(string(reason)).Inc()
	}
	slog.Info("Poll finalized", "poll_id", pollID, "reason", reason, "answered", p.AnsweredCount())

	e.broadcaster.BroadcastPoll(domain.EventPollResults, pollID, p.Tally())
}

func (e *Engine) handleListPolls(creator string) []domain.PollSummary {
	ids := e.byCreator[creator]
	summaries := make([]domain.PollSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, e.polls[id].Summary())
	}
	return summaries
}

func (e *Engine) handleStop() {
	for id, timer := range e.deadlines {
		timer.Stop()
		delete(e.deadlines, id)
	}
	slog.Info("Poll engine stopped", "polls", len(e.polls), "participants", e.roster.Size())
}

func (e *Engine) publishRoster() {
	if e.metrics != nil {
		e.metrics.Participants.Set(float64(e.roster.Size()))
	}
	e.broadcaster.Broadcast(domain.EventRosterChanged, e.roster.Identities())
}

func (e *Engine) countVote(result string) {
	if e.metrics != nil {
		e.metrics.Votes.WithLabelValues(result).Inc()
	}
}

// send enqueues a command. It reports false once the engine has been stopped.
func (e *Engine) send(cmd engineCmd) bool {
	select {
	case <-e.stopCh:
		return false
	default:
	}

	select {
	case e.cmdCh <- cmd:
		return true
	case <-e.stopCh:
		return false
	}
}

func await[T any](ctx context.Context, e *Engine, replyCh <-chan T) (T, error) {
	var zero T
	select {
	case v := <-replyCh:
		return v, nil
	case <-e.doneCh:
		return zero, domain.ErrEngineStopped
	case <-ctx.Done():
		return zero, fmt.Errorf("waiting for poll engine: %w", ctx.Err())
	}
}

// --- Public API ---

// Join registers identity for the connection.
func (e *Engine) Join(connID, identity string) {
	e.send(cmdJoin{connID: connID, identity: identity})
}

// Leave drops the connection from the roster. The transport calls it once per disconnect.
func (e *Engine) Leave(connID string) {
	e.send(cmdLeave{connID: connID})
}

// Kick disconnects every connection of identity and removes it from the roster.
// Unknown identities are ignored.
func (e *Engine) Kick(identity string) {
	e.send(cmdKick{identity: identity})
}

// CreatePoll opens a new poll, schedules its deadline and announces it. It returns the poll id.
func (e *Engine) CreatePoll(ctx context.Context, req domain.CreatePollRequest) (string, error) {
	replyCh := make(chan string, 1)
	if !e.send(cmdCreatePoll{req: req, replyCh: replyCh}) {
		return "", domain.ErrEngineStopped
	}
	return await(ctx, e, replyCh)
}

// SubmitVote applies a vote. Votes for unknown or closed polls, or for option text that
// matches no option, are silently ignored.
func (e *Engine) SubmitVote(pollID, identity, optionText string) {
	e.send(cmdSubmitVote{pollID: pollID, identity: identity, optionText: optionText})
}

// RelayChat rebroadcasts a chat message to every connection.
func (e *Engine) RelayChat(msg domain.ChatMessage) {
	e.send(cmdChat{msg: msg})
}

// ListPolls returns every poll created by creator, oldest first, with current counts.
func (e *Engine) ListPolls(ctx context.Context, creator string) ([]domain.PollSummary, error) {
	replyCh := make(chan []domain.PollSummary, 1)
	if !e.send(cmdListPolls{creator: creator, replyCh: replyCh}) {
		return nil, domain.ErrEngineStopped
	}
	return await(ctx, e, replyCh)
}

// GetPoll returns a snapshot of a single poll.
func (e *Engine) GetPoll(ctx context.Context, pollID string) (domain.PollSummary, error) {
	replyCh := make(chan pollResult, 1)
	if !e.send(cmdGetPoll{pollID: pollID, replyCh: replyCh}) {
		return domain.PollSummary{}, domain.ErrEngineStopped
	}
	result, err := await(ctx, e, replyCh)
	if err != nil {
		return domain.PollSummary{}, err
	}
	if !result.ok {
		return domain.PollSummary{}, domain.ErrPollNotFound
	}
	return result.summary, nil
}

// Participants returns a sorted snapshot of the connected identities.
func (e *Engine) Participants(ctx context.Context) ([]string, error) {
	replyCh := make(chan []string, 1)
	if !e.send(cmdRoster{replyCh: replyCh}) {
		return nil, domain.ErrEngineStopped
	}
	return await(ctx, e, replyCh)
}

// Stop cancels pending deadlines and stops the engine goroutine. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	<-e.doneCh
}
