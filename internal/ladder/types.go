package ladder

import (
	"time"
)

// DefaultRating is the rating every player starts with.
const DefaultRating = 1200

// MatchType is the format of a match.
type MatchType string

const (
	Singles MatchType = "SINGLES"
	Doubles MatchType = "DOUBLES"
)

// RosterSize returns how many players each team fields for the match type.
func (t MatchType) RosterSize() int {
	switch t {
	case Singles:
		return 1
	case Doubles:
		return 2
	}
	return 0
}

// Valid reports whether t is a known match type.
func (t MatchType) Valid() bool {
	return t.RosterSize() > 0
}

// Team identifies one side of a match.
type Team string

const (
	NoTeam Team = ""
	TeamA  Team = "A"
	TeamB  Team = "B"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return NoTeam
}

// Valid reports whether t is A or B.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// MatchStatus is the approval lifecycle state of a submitted match.
type MatchStatus string

const (
	StatusPending  MatchStatus = "PENDING"
	StatusApproved MatchStatus = "APPROVED"
	StatusRejected MatchStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s MatchStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// BestOf is the number of sets a match is played over.
type BestOf int

// Valid reports whether b is one of 1, 3, 5 or 7.
func (b BestOf) Valid() bool {
	switch b {
	case 1, 3, 5, 7:
		return true
	}
	return false
}

// SetsToWin is ceil(b/2).
func (b BestOf) SetsToWin() int {
	return (int(b) + 1) / 2
}

// Set is the final score of one game within a match.
type Set struct {
	TeamA int `json:"teamAScore" msgpack:"a"`
	TeamB int `json:"teamBScore" msgpack:"b"`
}

// Winner returns the team with the higher score, or NoTeam on a tie.
func (s Set) Winner() Team {
	switch {
	case s.TeamA > s.TeamB:
		return TeamA
	case s.TeamB > s.TeamA:
		return TeamB
	}
	return NoTeam
}

// Score returns the score of the given team.
func (s Set) Score(team Team) int {
	if team == TeamB {
		return s.TeamB
	}
	return s.TeamA
}

// Player is a registered ladder player.
type Player struct {
	ID        string    `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	Rating    int       `json:"elo" msgpack:"rating"`
	Wins      int       `json:"wins" msgpack:"wins"`
	Losses    int       `json:"losses" msgpack:"losses"`
	Avatar    string    `json:"avatar" msgpack:"avatar"`
	CreatedAt time.Time `json:"createdAt" msgpack:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" msgpack:"updated_at"`
}

// PlayerUpdate is the rating and counter snapshot written for one player
// when a match is approved.
type PlayerUpdate struct {
	ID     string `json:"id"`
	Rating int    `json:"elo"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// Settlement computes the player snapshots of an approved match from the
// players' current state. Rostered ids missing from players are unknown.
type Settlement func(match Match, players map[string]Player) ([]PlayerUpdate, error)

// Match is a submitted match result.
type Match struct {
	ID          string      `json:"id" msgpack:"id"`
	CreatedAt   time.Time   `json:"date" msgpack:"created_at"`
	Type        MatchType   `json:"type" msgpack:"type"`
	TeamA       []string    `json:"teamAIds" msgpack:"team_a"`
	TeamB       []string    `json:"teamBIds" msgpack:"team_b"`
	Sets        []Set       `json:"sets" msgpack:"sets"`
	Winner      Team        `json:"winnerTeam,omitempty" msgpack:"winner"`
	Status      MatchStatus `json:"status" msgpack:"status"`
	BestOf      BestOf      `json:"format" msgpack:"best_of"`
	SubmittedBy string      `json:"submittedBy" msgpack:"submitted_by"`
	Commentary  string      `json:"aiCommentary,omitempty" msgpack:"commentary"`
	ReviewedAt  *time.Time  `json:"reviewedAt,omitempty" msgpack:"reviewed_at"`
}

// Roster returns the player ids of the given team.
func (m *Match) Roster(team Team) []string {
	switch team {
	case TeamA:
		return m.TeamA
	case TeamB:
		return m.TeamB
	}
	return nil
}

// TeamOf returns the team the player is on, or NoTeam.
func (m *Match) TeamOf(playerID string) Team {
	for _, id := range m.TeamA {
		if id == playerID {
			return TeamA
		}
	}
	for _, id := range m.TeamB {
		if id == playerID {
			return TeamB
		}
	}
	return NoTeam
}

// Involves reports whether the player is on either roster.
func (m *Match) Involves(playerID string) bool {
	return m.TeamOf(playerID) != NoTeam
}

// SetWins counts the sets won by each team.
func (m *Match) SetWins() (a, b int) {
	return CountSetWins(m.Sets)
}

// CountSetWins counts the sets won by each team.
func CountSetWins(sets []Set) (a, b int) {
	for _, s := range sets {
		switch s.Winner() {
		case TeamA:
			a++
		case TeamB:
			b++
		}
	}
	return a, b
}

// MatchDraft is a finished match as handed over by the scoring client,
// before it is stored.
type MatchDraft struct {
	Type        MatchType `json:"type" validate:"required,oneof=SINGLES DOUBLES"`
	TeamA       []string  `json:"teamAIds" validate:"required,min=1,max=2,dive,required"`
	TeamB       []string  `json:"teamBIds" validate:"required,min=1,max=2,dive,required"`
	Sets        []Set     `json:"sets"`
	Winner      Team      `json:"winnerTeam"`
	BestOf      BestOf    `json:"format" validate:"oneof=1 3 5 7"`
	SubmittedBy string    `json:"submittedBy"`
	Commentary  string    `json:"aiCommentary"`
}

// Credential is the salted digest of a player's PIN. It is stored with the
// player and never sent to clients.
type Credential struct {
	Hash string
	Salt string
}
