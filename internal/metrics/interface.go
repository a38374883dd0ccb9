package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesSubmitted()
	IncMatchesApproved()
	IncMatchesRejected()
	ObserveApprovalDuration(duration float64)
	IncPlayersRegistered()
	IncLoginFailed()
	IncCommentaryGenerated()
	IncCommentaryFailed()
	IncEventsPublished()
	IncEventsFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// TallyStore keeps lifetime counters that survive restarts.
type TallyStore interface {
	Increment(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]int, error)
}
