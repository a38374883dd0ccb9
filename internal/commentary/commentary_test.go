package commentary

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompletions struct {
	resp  *openai.ChatCompletion
	err   error
	calls []openai.ChatCompletionNewParams
}

func (f *fakeCompletions) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.calls = append(f.calls, body)
	return f.resp, f.err
}

func completion(text string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: text}},
		},
	}
}

func testFacts() Facts {
	return Facts{
		Type:   ladder.Singles,
		TeamA:  []string{"Alice"},
		TeamB:  []string{"Bob"},
		Winner: ladder.TeamA,
		Sets:   []ladder.Set{{TeamA: 11, TeamB: 5}, {TeamA: 7, TeamB: 11}, {TeamA: 11, TeamB: 9}},
	}
}

func TestOpenAI_Generate(t *testing.T) {
	t.Run("returns model text", func(t *testing.T) {
		api := &fakeCompletions{resp: completion("  Alice edges Bob in three.  ")}
		m := metrics.NewMock()
		gen := NewWithAPI(api, "", m)

		text := gen.Generate(context.Background(), testFacts())

		assert.Equal(t, "Alice edges Bob in three.", text)
		require.Len(t, api.calls, 1)
		assert.Equal(t, openai.ChatModel(DefaultModel), api.calls[0].Model)
		assert.Equal(t, 1, m.CommentaryGeneratedCount())
		assert.Equal(t, 0, m.CommentaryFailedCount())
	})

	t.Run("failure falls back", func(t *testing.T) {
		api := &fakeCompletions{err: errors.New("connection refused")}
		m := metrics.NewMock()
		gen := NewWithAPI(api, "gpt-4o", m)

		assert.Equal(t, FallbackFailed, gen.Generate(context.Background(), testFacts()))
		assert.Equal(t, 1, m.CommentaryFailedCount())
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		gen := NewWithAPI(&fakeCompletions{resp: completion("   ")}, "", metrics.NewMock())
		assert.Equal(t, FallbackEmpty, gen.Generate(context.Background(), testFacts()))
	})

	t.Run("no choices falls back", func(t *testing.T) {
		gen := NewWithAPI(&fakeCompletions{resp: &openai.ChatCompletion{}}, "", metrics.NewMock())
		assert.Equal(t, FallbackEmpty, gen.Generate(context.Background(), testFacts()))
	})
}

func TestNew_WithoutKeyIsStatic(t *testing.T) {
	gen := New(Config{}, metrics.NewMock())
	assert.Equal(t, FallbackDisabled, gen.Generate(context.Background(), testFacts()))
}

func TestFacts_Prompt(t *testing.T) {
	prompt := testFacts().Prompt()
	assert.Contains(t, prompt, "Match type: SINGLES")
	assert.Contains(t, prompt, "Team A: Alice.")
	assert.Contains(t, prompt, "Team B: Bob.")
	assert.Contains(t, prompt, "Winner: Alice.")
	assert.Contains(t, prompt, "Set Scores: 11-5, 7-11, 11-9.")
}

func TestFactsFor(t *testing.T) {
	draft := ladder.MatchDraft{
		Type:   ladder.Doubles,
		TeamA:  []string{"p1", "p2"},
		TeamB:  []string{"p3", "p4"},
		Winner: ladder.TeamB,
	}
	facts := FactsFor(draft, map[string]string{"p1": "Alice", "p2": "Bob", "p3": "Carol"})
	assert.Equal(t, []string{"Alice", "Bob"}, facts.TeamA)
	assert.Equal(t, []string{"Carol", "Unknown"}, facts.TeamB)
	assert.Contains(t, facts.Prompt(), "Winner: Carol & Unknown.")
}
