package domain

import "time"

// PollState is the lifecycle state of a poll. OPEN is the only non-terminal state.
type PollState string

const (
	PollOpen   PollState = "open"
	PollClosed PollState = "closed"
)

// OptionInput is one answer option as supplied by the presenter.
type OptionInput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// CreatePollRequest carries everything needed to open a new poll.
type CreatePollRequest struct {
	Question         string
	Options          []OptionInput
	TimeLimitSeconds int
	CreatorIdentity  string
}

// PollDefinition is the poll as announced to clients on creation (no vote counts).
type PollDefinition struct {
	ID               string        `json:"id"`
	Question         string        `json:"question"`
	Options          []OptionInput `json:"options"`
	TimeLimitSeconds int           `json:"timeLimitSeconds"`
	CreatorIdentity  string        `json:"creatorIdentity"`
}

// OptionSummary is an option with its current vote count.
type OptionSummary struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"voteCount"`
}

// PollSummary is the read-back shape returned when listing a creator's polls.
type PollSummary struct {
	ID               string          `json:"id"`
	Question         string          `json:"question"`
	TimeLimitSeconds int             `json:"timeLimitSeconds"`
	CreatedAt        time.Time       `json:"createdAt"`
	State            PollState       `json:"state"`
	Options          []OptionSummary `json:"options"`
}

// Tally maps option text to its vote count.
type Tally map[string]int

// FinalizeReason records why a poll was closed.
type FinalizeReason string

const (
	FinalizeDeadline    FinalizeReason = "deadline"
	FinalizeAllAnswered FinalizeReason = "all_answered"
)
