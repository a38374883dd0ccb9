package commentary

import (
	"context"
	"sync"
)

// Mock is a Generator for tests.
type Mock struct {
	mu sync.Mutex

	GenerateFunc  func(ctx context.Context, facts Facts) string
	GenerateCalls []Facts
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Generate(ctx context.Context, facts Facts) string {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, facts)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, facts)
	}
	return "What a rally!"
}
