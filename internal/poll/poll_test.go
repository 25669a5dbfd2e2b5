package poll

import (
	"testing"
	"time"

	"github.com/saisujan42/Live-Polling-System/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoll(t *testing.T, texts ...string) *Poll {
	t.Helper()
	options := make([]domain.OptionInput, len(texts))
	for i, text := range texts {
		options[i] = domain.OptionInput{ID: string(rune('1' + i)), Text: text, IsCorrect: i == 0}
	}
	return New("poll-1", domain.CreatePollRequest{
		Question:         "Pick one",
		Options:          options,
		TimeLimitSeconds: 60,
		CreatorIdentity:  "teacher-abc",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestNew_StartsOpenWithZeroCounts(t *testing.T) {
	p := newTestPoll(t, "A", "B")

	assert.True(t, p.IsOpen())
	assert.Equal(t, domain.Tally{"A": 0, "B": 0}, p.Tally())
	assert.Equal(t, 0, p.AnsweredCount())
	assert.Equal(t, 60*time.Second, p.TimeLimit())
	assert.Equal(t, "teacher-abc", p.Creator())
}

func TestVote_CountsMatchingOption(t *testing.T) {
	p := newTestPoll(t, "A", "B")

	require.True(t, p.Vote("x", "A"))
	require.True(t, p.Vote("y", "B"))
	require.True(t, p.Vote("z", "A"))

	assert.Equal(t, domain.Tally{"A": 2, "B": 1}, p.Tally())
	assert.Equal(t, 3, p.AnsweredCount())
}

func TestVote_UnmatchedOptionIgnored(t *testing.T) {
	p := newTestPoll(t, "A", "B")

	assert.False(t, p.Vote("x", "a"))
	assert.False(t, p.Vote("x", "C"))

	assert.Equal(t, domain.Tally{"A": 0, "B": 0}, p.Tally())
	assert.False(t, p.HasAnswered("x"))
}

func TestVote_RepeatCountsTallyButNotAnswered(t *testing.T) {
	p := newTestPoll(t, "A", "B")

	require.True(t, p.Vote("x", "A"))
	require.True(t, p.Vote("x", "B"))

	assert.Equal(t, domain.Tally{"A": 1, "B": 1}, p.Tally())
	assert.Equal(t, 1, p.AnsweredCount())
}

func TestVote_ClosedPollIgnored(t *testing.T) {
	p := newTestPoll(t, "A", "B")
	require.True(t, p.Vote("x", "A"))
	require.True(t, p.Close())

	assert.False(t, p.Vote("y", "A"))

	assert.Equal(t, domain.Tally{"A": 1, "B": 0}, p.Tally())
	assert.Equal(t, 1, p.AnsweredCount())
	assert.False(t, p.HasAnswered("y"))
}

func TestClose_SecondCallIsNoop(t *testing.T) {
	p := newTestPoll(t, "A")

	assert.True(t, p.Close())
	assert.False(t, p.Close())
	assert.False(t, p.IsOpen())
}

func TestDefinition_OmitsCounts(t *testing.T) {
	p := newTestPoll(t, "A", "B")
	p.Vote("x", "A")

	def := p.Definition()

	assert.Equal(t, "poll-1", def.ID)
	assert.Equal(t, "Pick one", def.Question)
	assert.Equal(t, 60, def.TimeLimitSeconds)
	assert.Equal(t, "teacher-abc", def.CreatorIdentity)
	assert.Equal(t, []domain.OptionInput{
		{ID: "1", Text: "A", IsCorrect: true},
		{ID: "2", Text: "B", IsCorrect: false},
	}, def.Options)
}

func TestSummary_ReflectsStateAndCounts(t *testing.T) {
	p := newTestPoll(t, "A", "B")
	p.Vote("x", "B")
	p.Close()

	s := p.Summary()

	assert.Equal(t, domain.PollClosed, s.State)
	assert.Equal(t, p.CreatedAt(), s.CreatedAt)
	assert.Equal(t, []domain.OptionSummary{
		{ID: "1", Text: "A", VoteCount: 0},
		{ID: "2", Text: "B", VoteCount: 1},
	}, s.Options)
}

func TestNew_CopiesOptions(t *testing.T) {
	req := domain.CreatePollRequest{
		Question: "q",
		Options:  []domain.OptionInput{{ID: "1", Text: "A"}},
	}
	p := New("id", req, time.Now())

	req.Options[0].Text = "mutated"

	assert.Equal(t, "A", p.Definition().Options[0].Text)
}
