package poll

import (
	"time"

	"github.com/saisujan42/Live-Polling-System/internal/domain"
)

type option struct {
	id        string
	text      string
	isCorrect bool
	voteCount int
}

type Poll struct {
	id               string
	question         string
	options          []option
	timeLimitSeconds int
	creator          string
	createdAt        time.Time
	state            domain.PollState
	answeredBy       map[string]struct{}
}

// New creates an OPEN poll with zero counts. Options are copied in order.
func New(id string, req domain.CreatePollRequest, createdAt time.Time) *Poll {
	options := make([]option, len(req.Options))
	for i, o := range req.Options {
		options[i] = option{id: o.ID, text: o.Text, isCorrect: o.IsCorrect}
	}

	return &Poll{
		id:               id,
		question:         req.Question,
		options:          options,
		timeLimitSeconds: req.TimeLimitSeconds,
		creator:          req.CreatorIdentity,
		createdAt:        createdAt,
		state:            domain.PollOpen,
		answeredBy:       make(map[string]struct{}),
	}
}

func (p *Poll) ID() string           { return p.id }
func (p *Poll) Creator() string      { return p.creator }
func (p *Poll) CreatedAt() time.Time { return p.createdAt }
func (p *Poll) IsOpen() bool         { return p.state == domain.PollOpen }

func (p *Poll) TimeLimit() time.Duration {
	return time.Duration(p.timeLimitSeconds) * time.Second
}

// Vote counts one vote for the option whose text matches exactly. It returns false, and
// changes nothing, when the poll is closed or no option matches.
//
// A repeated vote from the same identity is counted again in the tally but identity is only
// recorded once in the answered set.
func (p *Poll) Vote(identity, optionText string) bool {
	if p.state != domain.PollOpen {
		return false
	}

	for i := range p.options {
		if p.options[i].text == optionText {
			p.options[i].voteCount++
			p.answeredBy[identity] = struct{}{}
			return true
		}
	}
	return false
}

// Close moves the poll to CLOSED. It returns false if the poll was already closed.
func (p *Poll) Close() bool {
	if p.state == domain.PollClosed {
		return false
	}
	p.state = domain.PollClosed
	return true
}

// AnsweredCount returns the number of distinct identities that voted.
func (p *Poll) AnsweredCount() int {
	return len(p.answeredBy)
}

// HasAnswered reports whether identity has voted on this poll.
func (p *Poll) HasAnswered(identity string) bool {
	_, ok := p.answeredBy[identity]
	return ok
}

// Tally returns the option text → vote count mapping.
func (p *Poll) Tally() domain.Tally {
	tally := make(domain.Tally, len(p.options))
	for _, o := range p.options {
		tally[o.text] = o.voteCount
	}
	return tally
}

// Definition returns the poll as announced on creation, without counts.
func (p *Poll) Definition() domain.PollDefinition {
	options := make([]domain.OptionInput, len(p.options))
	for i, o := range p.options {
		options[i] = domain.OptionInput{ID: o.id, Text: o.text, IsCorrect: o.isCorrect}
	}

	return domain.PollDefinition{
		ID:               p.id,
		Question:         p.question,
		Options:          options,
		TimeLimitSeconds: p.timeLimitSeconds,
		CreatorIdentity:  p.creator,
	}
}

// Summary returns a read-only snapshot with current counts.
func (p *Poll) Summary() domain.PollSummary {
	options := make([]domain.OptionSummary, len(p.options))
	for i, o := range p.options {
		options[i] = domain.OptionSummary{ID: o.id, Text: o.text, VoteCount: o.voteCount}
	}

	return domain.PollSummary{
		ID:               p.id,
		Question:         p.question,
		TimeLimitSeconds: p.timeLimitSeconds,
		CreatedAt:        p.createdAt,
		State:            p.state,
		Options:          options,
	}
}
