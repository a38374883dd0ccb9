package auth

import (
	"context"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// PlayerStore is the part of the player directory the auth service needs.
type PlayerStore interface {
	AppendPlayer(ctx context.Context, player ladder.Player, cred ladder.Credential) error
	GetPlayer(ctx context.Context, id string) (ladder.Player, error)
	GetCredential(ctx context.Context, playerID string) (ladder.Credential, error)
}
