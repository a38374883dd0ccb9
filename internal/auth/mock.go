package auth

import (
	"context"
	"sync"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

// MemoryStore is an in-memory PlayerStore for tests.
type MemoryStore struct {
	mu      sync.Mutex
	players map[string]ladder.Player
	creds   map[string]ladder.Credential

	AppendPlayerFunc func(ctx context.Context, player ladder.Player, cred ladder.Credential) error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]ladder.Player),
		creds:   make(map[string]ladder.Credential),
	}
}

func (m *MemoryStore) AppendPlayer(ctx context.Context, player ladder.Player, cred ladder.Credential) error {
	if m.AppendPlayerFunc != nil {
		if err := m.AppendPlayerFunc(ctx, player, cred); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[player.ID] = player
	m.creds[player.ID] = cred
	return nil
}

func (m *MemoryStore) GetPlayer(_ context.Context, id string) (ladder.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return ladder.Player{}, ladder.ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) GetCredential(_ context.Context, playerID string) (ladder.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creds[playerID]
	if !ok {
		return ladder.Credential{}, ladder.ErrNotFound
	}
	return c, nil
}
