package server

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/saisujan42/Live-Polling-System/internal/domain"
)

// inboundEnvelope is the shape of every client frame: {"event": name, "data": payload}.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// flexSeconds accepts a JSON number or a numeric string. Anything unparsable is zero, which
// the engine replaces with the default time limit.
type flexSeconds int

func (f *flexSeconds) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexSeconds(v)
	return nil
}

type joinPayload struct {
	Identity string `json:"identity"`
	Username string `json:"username"`
}

func (p joinPayload) identity() string {
	return cmp.Or(p.Identity, p.Username)
}

type optionPayload struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Correct   bool   `json:"correct"`
}

type createPollPayload struct {
	Question         string          `json:"question"`
	Options          []optionPayload `json:"options"`
	TimeLimitSeconds flexSeconds     `json:"timeLimitSeconds"`
	Timer            flexSeconds     `json:"timer"`
	CreatorIdentity  string          `json:"creatorIdentity"`
	TeacherUsername  string          `json:"teacherUsername"`
}

func (p createPollPayload) request() domain.CreatePollRequest {
	options := make([]domain.OptionInput, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, domain.OptionInput{
			ID:        o.ID,
			Text:      o.Text,
			IsCorrect: o.IsCorrect || o.Correct,
		})
	}
	return domain.CreatePollRequest{
		Question:         p.Question,
		Options:          options,
		TimeLimitSeconds: int(cmp.Or(p.TimeLimitSeconds, p.Timer)),
		CreatorIdentity:  cmp.Or(p.CreatorIdentity, p.TeacherUsername),
	}
}

type votePayload struct {
	PollID     string `json:"pollId"`
	Identity   string `json:"identity"`
	Username   string `json:"username"`
	OptionText string `json:"optionText"`
	Option     string `json:"option"`
}

func (p votePayload) identity() string {
	return cmp.Or(p.Identity, p.Username)
}

func (p votePayload) optionText() string {
	return cmp.Or(p.OptionText, p.Option)
}

// decodeTarget reads the identity of a moderate-remove request, sent either as a bare JSON
// string or as an object.
func decodeTarget(data json.RawMessage) (string, error) {
	var identity string
	if err := json.Unmarshal(data, &identity); err == nil {
		return identity, nil
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("decode remove target: %w", err)
	}
	return p.identity(), nil
}
