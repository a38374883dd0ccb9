package approval

import (
	"time"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
)

// Workflow gates rating changes behind confirmation by an opponent.
type Workflow struct {
	store   Store
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
	locks   *keyedMutex
	now     func() time.Time
}

// Result is the outcome of an approval.
type Result struct {
	Match   ladder.Match    `json:"match"`
	Players []ladder.Player `json:"players"`
	Updates []rating.Update `json:"eloUpdates"`
}
