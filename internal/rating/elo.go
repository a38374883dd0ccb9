package rating

import (
	"math"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// K is the Elo development coefficient.
const K = 32

type Points float64

const (
	Win  Points = 1
	Lose Points = 0
)

// Update is the rating change produced for one player.
type Update struct {
	PlayerID string `json:"playerId" msgpack:"player_id"`
	Previous int    `json:"previousElo" msgpack:"previous"`
	New      int    `json:"newElo" msgpack:"new"`
}

// Delta returns New - Previous.
func (u Update) Delta() int {
	return u.New - u.Previous
}

// Expected score of a side rated ra against a side rated rb.
func Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}

// Delta returns round(K * (Sa - Ea)) for a side rated ra against rb.
func Delta(ra, rb float64, sa Points) int {
	return int(math.Round(K * (float64(sa) - Expected(ra, rb))))
}

// TeamRating is the mean rating of the team members that have a known
// rating. A team with no known member rates DefaultRating.
func TeamRating(ids []string, ratings map[string]int) float64 {
	var sum, n int
	for _, id := range ids {
		r, ok := ratings[id]
		if !ok {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return ladder.DefaultRating
	}
	return float64(sum) / float64(n)
}

// Calculate computes the new rating of every player in both rosters after
// winner took the match. Each member of a team receives the full team delta.
// Players missing from ratings are skipped. Updates are returned in roster
// order, team A first.
func Calculate(teamA, teamB []string, winner ladder.Team, ratings map[string]int) []Update {
	ra := TeamRating(teamA, ratings)
	rb := TeamRating(teamB, ratings)

	pointsA, pointsB := Lose, Win
	if winner == ladder.TeamA {
		pointsA, pointsB = Win, Lose
	}
	deltaA := Delta(ra, rb, pointsA)
	deltaB := Delta(rb, ra, pointsB)

	updates := make([]Update, 0, len(teamA)+len(teamB))
	apply := func(ids []string, delta int) {
		for _, id := range ids {
			prev, ok := ratings[id]
			if !ok {
				continue
			}
			updates = append(updates, Update{PlayerID: id, Previous: prev, New: prev + delta})
		}
	}
	apply(teamA, deltaA)
	apply(teamB, deltaB)
	return updates
}
