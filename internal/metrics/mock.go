package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesSubmitted    int
	matchesApproved     int
	matchesRejected     int
	approvalDurations   []float64
	playersRegistered   int
	loginFailed         int
	commentaryGenerated int
	commentaryFailed    int
	eventsPublished     int
	eventsFailed        int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		approvalDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncMatchesApproved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesApproved++
}

func (m *Mock) IncMatchesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRejected++
}

func (m *Mock) ObserveApprovalDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvalDurations = append(m.approvalDurations, duration)
}

func (m *Mock) IncPlayersRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncLoginFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginFailed++
}

func (m *Mock) IncCommentaryGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commentaryGenerated++
}

func (m *Mock) IncCommentaryFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commentaryFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesSubmittedCount returns the number of times IncMatchesSubmitted was called.
func (m *Mock) MatchesSubmittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

// MatchesApprovedCount returns the number of times IncMatchesApproved was called.
func (m *Mock) MatchesApprovedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesApproved
}

// MatchesRejectedCount returns the number of times IncMatchesRejected was called.
func (m *Mock) MatchesRejectedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRejected
}

// ApprovalDurations returns every observed approval duration.
func (m *Mock) ApprovalDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.approvalDurations...)
}

func (m *Mock) PlayersRegisteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

func (m *Mock) LoginFailedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginFailed
}

func (m *Mock) CommentaryGeneratedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commentaryGenerated
}

func (m *Mock) CommentaryFailedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commentaryFailed
}

func (m *Mock) EventsPublishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

func (m *Mock) EventsFailedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockTally is an in-memory TallyStore.
type MockTally struct {
	mu       sync.Mutex
	counters map[string]int

	IncrementFunc func(ctx context.Context, key string) error
}

func NewMockTally() *MockTally {
	return &MockTally{counters: make(map[string]int)}
}

func (t *MockTally) Increment(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.IncrementFunc != nil {
		if err := t.IncrementFunc(ctx, key); err != nil {
			return err
		}
	}
	t.counters[key]++
	return nil
}

func (t *MockTally) GetAll(_ context.Context) (map[string]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.counters))
	for k, v := range t.counters {
		out[k] = v
	}
	return out, nil
}
