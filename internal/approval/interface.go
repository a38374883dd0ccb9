package approval

import (
	"context"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// Store defines the database operations required by the workflow.
type Store interface {
	ReadMatches(ctx context.Context) ([]ladder.Match, error)
	GetMatch(ctx context.Context, id string) (ladder.Match, error)
	AppendMatch(ctx context.Context, match ladder.Match) error
	UpdateMatchStatus(ctx context.Context, id string, status ladder.MatchStatus) (ladder.Match, error)
	ApproveMatch(ctx context.Context, id string, settle ladder.Settlement) (ladder.Match, error)
}
