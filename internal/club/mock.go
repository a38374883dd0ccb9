package club

import (
	"context"
	"sync"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

var _ Store = &MockStore{}

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ReadPlayersFunc       func(ctx context.Context) ([]ladder.Player, error)
	ReadMatchesFunc       func(ctx context.Context) ([]ladder.Match, error)
	GetPlayerFunc         func(ctx context.Context, id string) (ladder.Player, error)
	GetPlayersFunc        func(ctx context.Context, ids []string) (map[string]ladder.Player, error)
	GetMatchFunc          func(ctx context.Context, id string) (ladder.Match, error)
	AppendPlayerFunc      func(ctx context.Context, player ladder.Player, cred ladder.Credential) error
	AppendMatchFunc       func(ctx context.Context, match ladder.Match) error
	UpdatePlayersFunc     func(ctx context.Context, updates []ladder.PlayerUpdate) error
	UpdateMatchStatusFunc func(ctx context.Context, id string, status ladder.MatchStatus) (ladder.Match, error)
	ApproveMatchFunc      func(ctx context.Context, id string, updates []ladder.PlayerUpdate) (ladder.Match, error)
	GetCredentialFunc     func(ctx context.Context, playerID string) (ladder.Credential, error)

	// Call records
	AppendPlayerCalls      []ladder.Player
	AppendMatchCalls       []ladder.Match
	UpdatePlayersCalls     [][]ladder.PlayerUpdate
	UpdateMatchStatusCalls []struct {
		ID     string
		Status ladder.MatchStatus
	}
	ApproveMatchCalls []struct {
		ID      string
		Updates []ladder.PlayerUpdate
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendPlayerCalls = nil
	m.AppendMatchCalls = nil
	m.UpdatePlayersCalls = nil
	m.UpdateMatchStatusCalls = nil
	m.ApproveMatchCalls = nil
}

func (m *MockStore) ReadPlayers(ctx context.Context) ([]ladder.Player, error) {
	if m.ReadPlayersFunc != nil {
		return m.ReadPlayersFunc(ctx)
	}
	return []ladder.Player{}, nil
}

func (m *MockStore) ReadMatches(ctx context.Context) ([]ladder.Match, error) {
	if m.ReadMatchesFunc != nil {
		return m.ReadMatchesFunc(ctx)
	}
	return []ladder.Match{}, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id string) (ladder.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return ladder.Player{}, ladder.ErrNotFound
}

func (m *MockStore) GetPlayers(ctx context.Context, ids []string) (map[string]ladder.Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(ctx, ids)
	}
	return map[string]ladder.Player{}, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (ladder.Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	return ladder.Match{}, ladder.ErrNotFound
}

func (m *MockStore) AppendPlayer(ctx context.Context, player ladder.Player, cred ladder.Credential) error {
	m.mu.Lock()
	m.AppendPlayerCalls = append(m.AppendPlayerCalls, player)
	m.mu.Unlock()
	if m.AppendPlayerFunc != nil {
		return m.AppendPlayerFunc(ctx, player, cred)
	}
	return nil
}

func (m *MockStore) AppendMatch(ctx context.Context, match ladder.Match) error {
	m.mu.Lock()
	m.AppendMatchCalls = append(m.AppendMatchCalls, match)
	m.mu.Unlock()
	if m.AppendMatchFunc != nil {
		return m.AppendMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) UpdatePlayers(ctx context.Context, updates []ladder.PlayerUpdate) error {
	m.mu.Lock()
	m.UpdatePlayersCalls = append(m.UpdatePlayersCalls, updates)
	m.mu.Unlock()
	if m.UpdatePlayersFunc != nil {
		return m.UpdatePlayersFunc(ctx, updates)
	}
	return nil
}

func (m *MockStore) UpdateMatchStatus(ctx context.Context, id string, status ladder.MatchStatus) (ladder.Match, error) {
	m.mu.Lock()
	m.UpdateMatchStatusCalls = append(m.UpdateMatchStatusCalls, struct {
		ID     string
		Status ladder.MatchStatus
	}{id, status})
	m.mu.Unlock()
	if m.UpdateMatchStatusFunc != nil {
		return m.UpdateMatchStatusFunc(ctx, id, status)
	}
	return ladder.Match{ID: id, Status: status}, nil
}

// ApproveMatch runs settle against GetMatch and GetPlayers, records the
// snapshots it returns and then hands them to ApproveMatchFunc.
func (m *MockStore) ApproveMatch(ctx context.Context, id string, settle ladder.Settlement) (ladder.Match, error) {
	match, err := m.GetMatch(ctx, id)
	if err != nil {
		return ladder.Match{}, err
	}
	match.Status = ladder.StatusApproved
	players, err := m.GetPlayers(ctx, append(append([]string{}, match.TeamA...), match.TeamB...))
	if err != nil {
		return ladder.Match{}, err
	}
	updates, err := settle(match, players)
	if err != nil {
		return ladder.Match{}, err
	}

	m.mu.Lock()
	m.ApproveMatchCalls = append(m.ApproveMatchCalls, struct {
		ID      string
		Updates []ladder.PlayerUpdate
	}{id, updates})
	m.mu.Unlock()
	if m.ApproveMatchFunc != nil {
		return m.ApproveMatchFunc(ctx, id, updates)
	}
	return match, nil
}

func (m *MockStore) GetCredential(ctx context.Context, playerID string) (ladder.Credential, error) {
	if m.GetCredentialFunc != nil {
		return m.GetCredentialFunc(ctx, playerID)
	}
	return ladder.Credential{}, ladder.ErrNotFound
}
