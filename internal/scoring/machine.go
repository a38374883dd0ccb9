package scoring

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// New returns a machine in SETUP for a best of 3 singles match.
func New() *Machine {
	return &Machine{
		state:     StateSetup,
		matchType: ladder.Singles,
		bestOf:    3,
	}
}

func (m *Machine) requireState(want State, op string) error {
	if m.state != want {
		return fmt.Errorf("%w: cannot %s while %s", ladder.ErrInvalidState, op, m.state)
	}
	return nil
}

// SetType chooses singles or doubles.
func (m *Machine) SetType(t ladder.MatchType) error {
	if err := m.requireState(StateSetup, "change match type"); err != nil {
		return err
	}
	if !t.Valid() {
		return fmt.Errorf("%w: unknown match type %q", ladder.ErrValidation, t)
	}
	m.matchType = t
	return nil
}

// SetBestOf chooses the number of sets.
func (m *Machine) SetBestOf(b ladder.BestOf) error {
	if err := m.requireState(StateSetup, "change format"); err != nil {
		return err
	}
	if !b.Valid() {
		return fmt.Errorf("%w: best of %d is not one of 1, 3, 5, 7", ladder.ErrValidation, b)
	}
	m.bestOf = b
	return nil
}

// SetTeams records both rosters. They are checked by Start.
func (m *Machine) SetTeams(teamA, teamB []string) error {
	if err := m.requireState(StateSetup, "change teams"); err != nil {
		return err
	}
	m.teamA = append([]string(nil), teamA...)
	m.teamB = append([]string(nil), teamB...)
	return nil
}

// Start validates the setup and moves to PLAYING. On error nothing changes.
func (m *Machine) Start() error {
	if err := m.requireState(StateSetup, "start"); err != nil {
		return err
	}
	if err := ladder.ValidateRosters(m.matchType, m.teamA, m.teamB); err != nil {
		return err
	}
	if !m.bestOf.Valid() {
		return fmt.Errorf("%w: best of %d is not one of 1, 3, 5, 7", ladder.ErrValidation, m.bestOf)
	}
	m.state = StatePlaying
	log.Debug("Match started", "type", m.matchType, "bestOf", m.bestOf, "teamA", m.teamA, "teamB", m.teamB)
	return nil
}

// ScorePoint gives one point to team in the current set and completes the
// set and the match when their conditions are reached.
func (m *Machine) ScorePoint(team ladder.Team) error {
	if err := m.requireState(StatePlaying, "score a point"); err != nil {
		return err
	}
	switch team {
	case ladder.TeamA:
		m.current.TeamA++
	case ladder.TeamB:
		m.current.TeamB++
	default:
		return fmt.Errorf("%w: unknown team %q", ladder.ErrValidation, team)
	}

	if !ladder.SetFinished(m.current.TeamA, m.current.TeamB) {
		return nil
	}
	m.sets = append(m.sets, m.current)
	log.Debug("Set finished", "set", len(m.sets), "score", fmt.Sprintf("%d-%d", m.current.TeamA, m.current.TeamB))
	m.current = ladder.Set{}

	winsA, winsB := ladder.CountSetWins(m.sets)
	need := m.bestOf.SetsToWin()
	switch {
	case winsA >= need:
		m.winner = ladder.TeamA
	case winsB >= need:
		m.winner = ladder.TeamB
	default:
		return nil
	}
	m.state = StateSummary
	log.Debug("Match finished", "winner", m.winner, "setWinsA", winsA, "setWinsB", winsB)
	return nil
}

// Undo always refuses. Recorded points and sets are final.
func (m *Machine) Undo() error {
	return ladder.ErrUndoUnsupported
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Type() ladder.MatchType { return m.matchType }

func (m *Machine) BestOf() ladder.BestOf { return m.bestOf }

// Current returns the live score of the set in play.
func (m *Machine) Current() ladder.Set { return m.current }

// Sets returns the finished sets in order.
func (m *Machine) Sets() []ladder.Set {
	return append([]ladder.Set(nil), m.sets...)
}

// SetWins returns the number of sets won by each team so far.
func (m *Machine) SetWins() (a, b int) {
	return ladder.CountSetWins(m.sets)
}

// Winner is NoTeam until the match is in SUMMARY.
func (m *Machine) Winner() ladder.Team { return m.winner }

// Summary describes the finished match. Only available in SUMMARY.
func (m *Machine) Summary() (Summary, error) {
	if err := m.requireState(StateSummary, "summarize"); err != nil {
		return Summary{}, err
	}
	winsA, winsB := m.SetWins()
	return Summary{
		Type:     m.matchType,
		BestOf:   m.bestOf,
		TeamA:    append([]string(nil), m.teamA...),
		TeamB:    append([]string(nil), m.teamB...),
		Sets:     m.Sets(),
		SetWinsA: winsA,
		SetWinsB: winsB,
		Winner:   m.winner,
	}, nil
}

// Finish turns a finished match into a draft for submission. names maps
// player ids to display names for the commentary prompt. The generator never
// fails, so the draft always carries some commentary.
func (m *Machine) Finish(ctx context.Context, gen commentary.Generator, names map[string]string, submittedBy string) (ladder.MatchDraft, error) {
	summary, err := m.Summary()
	if err != nil {
		return ladder.MatchDraft{}, err
	}
	draft := ladder.MatchDraft{
		Type:        summary.Type,
		TeamA:       summary.TeamA,
		TeamB:       summary.TeamB,
		Sets:        summary.Sets,
		Winner:      summary.Winner,
		BestOf:      summary.BestOf,
		SubmittedBy: submittedBy,
	}
	if err := draft.Validate(); err != nil {
		return ladder.MatchDraft{}, err
	}
	draft.Commentary = gen.Generate(ctx, commentary.FactsFor(draft, names))
	return draft, nil
}
