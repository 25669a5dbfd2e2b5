package domain

// Outbound event names.
const (
	EventRosterChanged      = "rosterChanged"
	EventPollCreated        = "pollCreated"
	EventPollResults        = "pollResults"
	EventRemovedFromSession = "removedFromSession"
	EventChatMessage        = "chatMessage"
)

// Inbound event names. The second name of each pair is the legacy client spelling.
const (
	InboundJoin           = "join"
	InboundJoinLegacy     = "joinChat"
	InboundCreatePoll     = "createPoll"
	InboundSubmitVote     = "submitVote"
	InboundSubmitLegacy   = "submitAnswer"
	InboundModerateRemove = "moderate-remove"
	InboundKickOutLegacy  = "kickOut"
	InboundChatMessage    = "chatMessage"
)

// ChatMessage is relayed verbatim to every connection.
type ChatMessage struct {
	User string `json:"user"`
	Text string `json:"text"`
}
