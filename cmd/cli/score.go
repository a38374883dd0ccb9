package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	scoreType   string
	scoreBestOf int
	scoreTeamA  []string
	scoreTeamB  []string
	scorePlayer string
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreType, "type", string(ladder.Singles), "SINGLES or DOUBLES")
	scoreCmd.Flags().IntVar(&scoreBestOf, "best-of", 3, "Number of sets: 1, 3, 5 or 7")
	scoreCmd.Flags().StringSliceVar(&scoreTeamA, "team-a", nil, "Player ids of team A")
	scoreCmd.Flags().StringSliceVar(&scoreTeamB, "team-b", nil, "Player ids of team B")
	scoreCmd.Flags().StringVar(&scorePlayer, "player", "", "Your player id")
	scoreCmd.MarkFlagRequired("player")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a match point by point and submit it",
	Long: `Reads one point per line from stdin: "a" or "b" for the team that won
the rally. The match is submitted for approval once it is decided.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := scoreMatch(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/api/matches", draft)
	},
}

// scoreMatch drives a scoring machine from the rallies read from in.
func scoreMatch(in io.Reader, out io.Writer) (ladder.MatchDraft, error) {
	m := scoring.New()
	if err := m.SetType(ladder.MatchType(strings.ToUpper(scoreType))); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.SetBestOf(ladder.BestOf(scoreBestOf)); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.SetTeams(scoreTeamA, scoreTeamB); err != nil {
		return ladder.MatchDraft{}, err
	}
	if err := m.Start(); err != nil {
		return ladder.MatchDraft{}, err
	}

	scanner := bufio.NewScanner(in)
	for m.State() == scoring.StatePlaying && scanner.Scan() {
		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "a":
			err = m.ScorePoint(ladder.TeamA)
		case "b":
			err = m.ScorePoint(ladder.TeamB)
		case "undo":
			err = m.Undo()
		case "":
			continue
		default:
			fmt.Fprintln(out, `enter "a" or "b"`)
			continue
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		a, b := m.SetWins()
		cur := m.Current()
		fmt.Fprintf(out, "sets %d-%d  game %d-%d\n", a, b, cur.TeamA, cur.TeamB)
	}
	if err := scanner.Err(); err != nil {
		return ladder.MatchDraft{}, err
	}

	draft, err := m.Finish(context.Background(), commentary.Static{}, nil, scorePlayer)
	if err != nil {
		return ladder.MatchDraft{}, err
	}
	// Left empty so the server writes the commentary with player names.
	draft.Commentary = ""
	return draft, nil
}
