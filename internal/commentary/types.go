package commentary

import (
	"fmt"
	"strings"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

const (
	// FallbackFailed is returned when the text service errors.
	FallbackFailed = "Match recording complete."
	// FallbackEmpty is returned when the text service answers with nothing.
	FallbackEmpty = "What a match!"
	// FallbackDisabled is returned when no text service is configured.
	FallbackDisabled = "Match completed successfully."
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds the text service settings.
type Config struct {
	APIKey string
	Model  string
}

// Facts is what the generator is told about a match. Team members are
// given by display name.
type Facts struct {
	Type   ladder.MatchType
	TeamA  []string
	TeamB  []string
	Winner ladder.Team
	Sets   []ladder.Set
}

// FactsFor resolves the rosters of a match to player names. Unknown ids are
// rendered as "Unknown".
func FactsFor(draft ladder.MatchDraft, names map[string]string) Facts {
	resolve := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			name, ok := names[id]
			if !ok || name == "" {
				name = "Unknown"
			}
			out = append(out, name)
		}
		return out
	}
	return Facts{
		Type:   draft.Type,
		TeamA:  resolve(draft.TeamA),
		TeamB:  resolve(draft.TeamB),
		Winner: draft.Winner,
		Sets:   draft.Sets,
	}
}

// Prompt renders the instruction sent to the text service.
func (f Facts) Prompt() string {
	teamA := strings.Join(f.TeamA, " & ")
	teamB := strings.Join(f.TeamB, " & ")
	winner := teamB
	if f.Winner == ladder.TeamA {
		winner = teamA
	}
	scores := make([]string, 0, len(f.Sets))
	for _, s := range f.Sets {
		scores = append(scores, fmt.Sprintf("%d-%d", s.TeamA, s.TeamB))
	}

	var b strings.Builder
	b.WriteString("Write a short, exciting, 2-sentence sports commentary for a table tennis match.\n")
	fmt.Fprintf(&b, "Format: Singles or Doubles (Match type: %s).\n", f.Type)
	fmt.Fprintf(&b, "Team A: %s.\n", teamA)
	fmt.Fprintf(&b, "Team B: %s.\n", teamB)
	fmt.Fprintf(&b, "Winner: %s.\n", winner)
	fmt.Fprintf(&b, "Set Scores: %s.\n", strings.Join(scores, ", "))
	b.WriteString("Make it sound like a professional sports broadcast recap.")
	return b.String()
}
