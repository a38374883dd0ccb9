package notifier

import (
	"sync"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
)

var _ Notifier = &Mock{}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendApprovalRequestCalls []struct {
		Match ladder.Match
		Names map[string]string
	}
	SendResultNotificationCalls []struct {
		Match   ladder.Match
		Updates []rating.Update
		Names   map[string]string
	}
	SendRejectionNotificationCalls []ladder.Match
	SendLeaderboardCalls           [][]ladder.Player

	// Spies
	SendApprovalRequestFunc          func(match ladder.Match, names map[string]string, dryRun bool) error
	SendResultNotificationFunc       func(match ladder.Match, updates []rating.Update, names map[string]string, dryRun bool) error
	SendLeaderboardFunc              func(players []ladder.Player, dryRun bool) error
	FormatLeaderboardResponseFunc    func(players []ladder.Player) (any, error)
	FormatPlayerStatsResponseFunc    func(player ladder.Player, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records for format functions
	LastLeaderboardResponse    any
	LastPlayerStatsResponse    any
	LastPlayerNotFoundResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendApprovalRequestCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendRejectionNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendApprovalRequest(match ladder.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendApprovalRequestCalls = append(m.SendApprovalRequestCalls, struct {
		Match ladder.Match
		Names map[string]string
	}{match, names})
	if m.SendApprovalRequestFunc != nil {
		return m.SendApprovalRequestFunc(match, names, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(match ladder.Match, updates []rating.Update, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Match   ladder.Match
		Updates []rating.Update
		Names   map[string]string
	}{match, updates, names})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, updates, names, dryRun)
	}
	return nil
}

func (m *Mock) SendRejectionNotification(match ladder.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRejectionNotificationCalls = append(m.SendRejectionNotificationCalls, match)
	return nil
}

func (m *Mock) SendLeaderboard(players []ladder.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(players, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(players []ladder.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(players)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(player ladder.Player, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		resp, err := m.FormatPlayerStatsResponseFunc(player, query)
		m.LastPlayerStatsResponse = resp
		return resp, err
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	return "formatted_player_not_found", nil
}
