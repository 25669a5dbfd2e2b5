package engine

import "github.com/saisujan42/Live-Polling-System/internal/domain"

type engineCmd interface{ engineCmd() }

type cmdJoin struct {
	connID   string
	identity string
}

func (cmdJoin) engineCmd() {}

type cmdLeave struct {
	connID string
}

func (cmdLeave) engineCmd() {}

type cmdKick struct {
	identity string
}

func (cmdKick) engineCmd() {}

type cmdCreatePoll struct {
	req     domain.CreatePollRequest
	replyCh chan string
}

func (cmdCreatePoll) engineCmd() {}

type cmdSubmitVote struct {
	pollID     string
	identity   string
	optionText string
}

func (cmdSubmitVote) engineCmd() {}

type cmdFinalize struct {
	pollID string
	reason domain.FinalizeReason
}

func (cmdFinalize) engineCmd() {}

type cmdChat struct {
	msg domain.ChatMessage
}

func (cmdChat) engineCmd() {}

type cmdListPolls struct {
	creator string
	replyCh chan []domain.PollSummary
}

func (cmdListPolls) engineCmd() {}

type cmdGetPoll struct {
	pollID  string
	replyCh chan pollResult
}

func (cmdGetPoll) engineCmd() {}

type pollResult struct {
	summary domain.PollSummary
	ok      bool
}

type cmdRoster struct {
	replyCh chan []string
}

func (cmdRoster) engineCmd() {}
