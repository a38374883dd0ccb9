package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesSubmitted   prometheus.Counter
	MatchesApproved    prometheus.Counter
	MatchesRejected    prometheus.Counter
	ApprovalDuration   prometheus.Histogram
	PlayersRegistered  prometheus.Counter
	LoginFailed        prometheus.Counter
	CommentaryResults  *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Tally keys persisted by the Persistent recorder.
const (
	KeyMatchesSubmitted  = "matches_submitted"
	KeyMatchesApproved   = "matches_approved"
	KeyMatchesRejected   = "matches_rejected"
	KeyPlayersRegistered = "players_registered"
)
