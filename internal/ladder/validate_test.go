package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFinished(t *testing.T) {
	tests := []struct {
		a, b int
		want bool
	}{
		{11, 0, true},
		{11, 9, true},
		{11, 10, false},
		{10, 11, false},
		{12, 10, true},
		{10, 12, true},
		{13, 12, false},
		{15, 13, true},
		{10, 0, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SetFinished(tt.a, tt.b), "%d-%d", tt.a, tt.b)
	}
}

func TestValidateRosters(t *testing.T) {
	tests := []struct {
		name      string
		matchType MatchType
		teamA     []string
		teamB     []string
		wantErr   bool
	}{
		{"singles ok", Singles, []string{"p1"}, []string{"p2"}, false},
		{"doubles ok", Doubles, []string{"p1", "p2"}, []string{"p3", "p4"}, false},
		{"singles with two players", Singles, []string{"p1", "p2"}, []string{"p3"}, true},
		{"doubles short team", Doubles, []string{"p1", "p2"}, []string{"p3"}, true},
		{"same player both teams", Singles, []string{"p1"}, []string{"p1"}, true},
		{"overlap in doubles", Doubles, []string{"p1", "p2"}, []string{"p2", "p3"}, true},
		{"duplicate within team", Doubles, []string{"p1", "p1"}, []string{"p2", "p3"}, true},
		{"empty id", Singles, []string{""}, []string{"p2"}, true},
		{"unknown type", MatchType("TRIPLES"), []string{"p1"}, []string{"p2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRosters(tt.matchType, tt.teamA, tt.teamB)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchDraft_Validate(t *testing.T) {
	base := func() MatchDraft {
		return MatchDraft{
			Type:        Singles,
			TeamA:       []string{"p1"},
			TeamB:       []string{"p2"},
			Sets:        []Set{{11, 5}, {7, 11}, {11, 9}},
			Winner:      TeamA,
			BestOf:      3,
			SubmittedBy: "p1",
		}
	}

	t.Run("valid finished match", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("unfinished match without winner is accepted", func(t *testing.T) {
		d := base()
		d.Sets = d.Sets[:2]
		d.Winner = NoTeam
		require.NoError(t, d.Validate())
	})

	t.Run("winner declared too early", func(t *testing.T) {
		d := base()
		d.Sets = d.Sets[:2]
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("winner disagrees with sets", func(t *testing.T) {
		d := base()
		d.Winner = TeamB
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("decided match without winner", func(t *testing.T) {
		d := base()
		d.Winner = NoTeam
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("set played after the match was decided", func(t *testing.T) {
		d := base()
		d.Sets = []Set{{11, 5}, {11, 7}, {11, 9}}
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("unfinished set", func(t *testing.T) {
		d := base()
		d.Sets[2] = Set{11, 10}
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("bad best of", func(t *testing.T) {
		d := base()
		d.BestOf = 4
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})

	t.Run("submitter outside the rosters", func(t *testing.T) {
		d := base()
		d.SubmittedBy = "p9"
		assert.ErrorIs(t, d.Validate(), ErrValidation)
	})
}

func TestBestOf_SetsToWin(t *testing.T) {
	assert.Equal(t, 1, BestOf(1).SetsToWin())
	assert.Equal(t, 2, BestOf(3).SetsToWin())
	assert.Equal(t, 3, BestOf(5).SetsToWin())
	assert.Equal(t, 4, BestOf(7).SetsToWin())
}
