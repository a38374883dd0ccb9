package scoring

import "github.com/mauv0809/pingpong-ladder/internal/ladder"

// State is the phase a live match is in.
type State string

const (
	StateSetup   State = "SETUP"
	StatePlaying State = "PLAYING"
	StateSummary State = "SUMMARY"
)

// Summary describes a finished match.
type Summary struct {
	Type     ladder.MatchType `json:"type"`
	BestOf   ladder.BestOf    `json:"format"`
	TeamA    []string         `json:"teamAIds"`
	TeamB    []string         `json:"teamBIds"`
	Sets     []ladder.Set     `json:"sets"`
	SetWinsA int              `json:"setWinsA"`
	SetWinsB int              `json:"setWinsB"`
	Winner   ladder.Team      `json:"winnerTeam"`
}

// Machine tracks one live match from setup to the final point. A Machine is
// owned by the scoring client and is not safe for concurrent use.
type Machine struct {
	state     State
	matchType ladder.MatchType
	bestOf    ladder.BestOf
	teamA     []string
	teamB     []string
	current   ladder.Set
	sets      []ladder.Set
	winner    ladder.Team
}
