package club

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// PlayerMatch is a player suggested for a free-text name query.
type PlayerMatch struct {
	Player     ladder.Player
	Confidence float64
	Reasons    []string
}

const (
	minConfidence  = 0.3
	maxSuggestions = 5
)

// SearchPlayers ranks players by how closely their name matches query. An
// exact match (ignoring case, punctuation and extra spaces) scores 1.
func SearchPlayers(players []ladder.Player, query string) []PlayerMatch {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var matches []PlayerMatch
	for _, p := range players {
		name := normalizeName(p.Name)
		score := similarity(q, name)
		if score < minConfidence {
			continue
		}
		matches = append(matches, PlayerMatch{
			Player:     p,
			Confidence: score,
			Reasons:    matchReasons(q, name),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return matches
}

func similarity(query, name string) float64 {
	if query == name {
		return 1
	}
	scores := []float64{stringSimilarity(query, name), tokenSimilarity(query, name)}
	if strings.HasPrefix(name, query) {
		scores = append(scores, 0.9)
	}
	var total float64
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// normalizeName lowercases, drops everything but letters, digits and spaces
// and collapses runs of spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	var hits int
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > 0.8 {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func matchReasons(query, name string) []string {
	var reasons []string
	switch {
	case query == name:
		reasons = append(reasons, "Exact name match")
	case stringSimilarity(query, name) > 0.8:
		reasons = append(reasons, "Very similar name")
	case strings.HasPrefix(name, query):
		reasons = append(reasons, "Name starts with query")
	}
	if query != name && tokenSimilarity(query, name) > 0.5 {
		reasons = append(reasons, "Matching name components")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Partial name similarity")
	}
	return reasons
}
