package metrics

import (
	"context"
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// tally handles persisted counters.
type tally struct {
	db *sql.DB
	mu sync.Mutex
}

// NewTally creates a TallyStore backed by the metrics table.
func NewTally(db *sql.DB) TallyStore {
	return &tally{
		db: db,
	}
}

// Increment upserts a key and increments its value by one.
func (s *tally) Increment(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1;
	`, key)
	if err != nil {
		log.Error("Failed to increment metric", "error", err, "key", key)
		return err
	}
	log.Debug("Incremented metric", "key", key)
	return nil
}

// GetAll returns all persisted counters.
func (s *tally) GetAll(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM metrics")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}

// Persistent forwards to another Metrics and also persists the lifecycle
// counters to a TallyStore. Tally failures are logged and ignored.
type Persistent struct {
	Metrics
	tally TallyStore
}

// NewPersistent wraps m so lifecycle counters are also written to t.
func NewPersistent(m Metrics, t TallyStore) *Persistent {
	return &Persistent{Metrics: m, tally: t}
}

func (p *Persistent) incr(key string) {
	ctx := context.Background()
	if err := p.tally.Increment(ctx, key); err != nil {
		log.Warn("Failed to persist counter", "key", key, "error", err)
	}
}

func (p *Persistent) IncMatchesSubmitted() {
	p.Metrics.IncMatchesSubmitted()
	p.incr(KeyMatchesSubmitted)
}

func (p *Persistent) IncMatchesApproved() {
	p.Metrics.IncMatchesApproved()
	p.incr(KeyMatchesApproved)
}

func (p *Persistent) IncMatchesRejected() {
	p.Metrics.IncMatchesRejected()
	p.incr(KeyMatchesRejected)
}

func (p *Persistent) IncPlayersRegistered() {
	p.Metrics.IncPlayersRegistered()
	p.incr(KeyPlayersRegistered)
}
