package club

import (
	"context"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// Store persists players and matches.
type Store interface {
	// ReadPlayers returns every player, highest rating first.
	ReadPlayers(ctx context.Context) ([]ladder.Player, error)
	// ReadMatches returns every match, newest first.
	ReadMatches(ctx context.Context) ([]ladder.Match, error)
	GetPlayer(ctx context.Context, id string) (ladder.Player, error)
	// GetPlayers returns the known players among ids keyed by id. Unknown ids
	// are left out.
	GetPlayers(ctx context.Context, ids []string) (map[string]ladder.Player, error)
	GetMatch(ctx context.Context, id string) (ladder.Match, error)
	AppendPlayer(ctx context.Context, player ladder.Player, cred ladder.Credential) error
	AppendMatch(ctx context.Context, match ladder.Match) error
	// UpdatePlayers writes the batch in one transaction. An unknown id fails
	// the whole batch.
	UpdatePlayers(ctx context.Context, updates []ladder.PlayerUpdate) error
	// UpdateMatchStatus moves a PENDING match to status.
	UpdateMatchStatus(ctx context.Context, id string, status ladder.MatchStatus) (ladder.Match, error)
	// ApproveMatch marks a PENDING match APPROVED and writes the snapshots
	// settle computes from the players as read inside the same transaction.
	ApproveMatch(ctx context.Context, id string, settle ladder.Settlement) (ladder.Match, error)
	GetCredential(ctx context.Context, playerID string) (ladder.Credential, error)
}
