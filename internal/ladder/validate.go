package ladder

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// PointsToWinSet is the minimum score that can win a set.
const PointsToWinSet = 11

// SetFinished reports whether a live set score has been decided: one side
// has at least 11 points and leads by two or more.
func SetFinished(a, b int) bool {
	return (a >= PointsToWinSet && a-b >= 2) || (b >= PointsToWinSet && b-a >= 2)
}

// ValidateRosters checks roster sizes for the match type and that no player
// appears twice, on the same team or across teams.
func ValidateRosters(matchType MatchType, teamA, teamB []string) error {
	if !matchType.Valid() {
		return fmt.Errorf("%w: unknown match type %q", ErrValidation, matchType)
	}
	size := matchType.RosterSize()
	if len(teamA) != size || len(teamB) != size {
		return fmt.Errorf("%w: %s needs %d player(s) per team, got %d and %d", ErrValidation, matchType, size, len(teamA), len(teamB))
	}
	for _, id := range append(append([]string{}, teamA...), teamB...) {
		if id == "" {
			return fmt.Errorf("%w: empty player id in roster", ErrValidation)
		}
	}

	a := mapset.NewSet(teamA...)
	b := mapset.NewSet(teamB...)
	if a.Cardinality() != len(teamA) || b.Cardinality() != len(teamB) {
		return fmt.Errorf("%w: a player is listed twice on the same team", ErrValidation)
	}
	if shared := a.Intersect(b); shared.Cardinality() > 0 {
		return fmt.Errorf("%w: player(s) %v on both teams", ErrValidation, shared.ToSlice())
	}
	return nil
}

// Validate checks a draft before it is stored: rosters, format, that every
// recorded set is a finished set, and that the declared winner agrees with
// the set sequence.
func (d MatchDraft) Validate() error {
	if err := ValidateRosters(d.Type, d.TeamA, d.TeamB); err != nil {
		return err
	}
	if !d.BestOf.Valid() {
		return fmt.Errorf("%w: best of %d is not one of 1, 3, 5, 7", ErrValidation, d.BestOf)
	}
	if d.SubmittedBy == "" {
		return fmt.Errorf("%w: submitter is required", ErrValidation)
	}
	if !mapset.NewSet(append(append([]string{}, d.TeamA...), d.TeamB...)...).Contains(d.SubmittedBy) {
		return fmt.Errorf("%w: submitter %s is not on either team", ErrValidation, d.SubmittedBy)
	}
	if d.Winner != NoTeam && !d.Winner.Valid() {
		return fmt.Errorf("%w: unknown winning team %q", ErrValidation, d.Winner)
	}

	need := d.BestOf.SetsToWin()
	var winsA, winsB int
	for i, s := range d.Sets {
		if s.TeamA < 0 || s.TeamB < 0 {
			return fmt.Errorf("%w: set %d has a negative score", ErrValidation, i+1)
		}
		if !SetFinished(s.TeamA, s.TeamB) {
			return fmt.Errorf("%w: set %d (%d-%d) is not finished", ErrValidation, i+1, s.TeamA, s.TeamB)
		}
		if winsA >= need || winsB >= need {
			return fmt.Errorf("%w: set %d recorded after the match was decided", ErrValidation, i+1)
		}
		if s.Winner() == TeamA {
			winsA++
		} else {
			winsB++
		}
	}

	decided := NoTeam
	switch {
	case winsA >= need:
		decided = TeamA
	case winsB >= need:
		decided = TeamB
	}
	if d.Winner != decided {
		if decided == NoTeam {
			return fmt.Errorf("%w: winner %s declared but sets are %d-%d in a best of %d", ErrValidation, d.Winner, winsA, winsB, d.BestOf)
		}
		return fmt.Errorf("%w: sets give the match to team %s, declared winner is %q", ErrValidation, decided, d.Winner)
	}
	return nil
}
