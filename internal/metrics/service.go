package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_submitted_total",
			Help: "The total number of match results submitted for approval.",
		}),
		MatchesApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_approved_total",
			Help: "The total number of match results approved.",
		}),
		MatchesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_rejected_total",
			Help: "The total number of match results rejected.",
		}),
		ApprovalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ladder_approval_duration_seconds",
			Help:    "The duration of a match approval, rating update included.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_players_registered_total",
			Help: "The total number of players registered.",
		}),
		LoginFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_login_failed_total",
			Help: "The total number of rejected login attempts.",
		}),
		CommentaryResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_commentary_requests_total",
			Help: "Commentary generation requests by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_events_published_total",
			Help: "Match lifecycle events published by outcome.",
		}, []string{"outcome"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ladder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesSubmitted,
		s.MatchesApproved,
		s.MatchesRejected,
		s.ApprovalDuration,
		s.PlayersRegistered,
		s.LoginFailed,
		s.CommentaryResults,
		s.EventsPublished,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesSubmitted() {
	s.MatchesSubmitted.Inc()
}

func (s *Service) IncMatchesApproved() {
	s.MatchesApproved.Inc()
}

func (s *Service) IncMatchesRejected() {
	s.MatchesRejected.Inc()
}

func (s *Service) ObserveApprovalDuration(duration float64) {
	s.ApprovalDuration.Observe(duration)
}

func (s *Service) IncPlayersRegistered() {
	s.PlayersRegistered.Inc()
}

func (s *Service) IncLoginFailed() {
	s.LoginFailed.Inc()
}

func (s *Service) IncCommentaryGenerated() {
	s.CommentaryResults.WithLabelValues("generated").Inc()
}

func (s *Service) IncCommentaryFailed() {
	s.CommentaryResults.WithLabelValues("failed").Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.WithLabelValues("published").Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsPublished.WithLabelValues("failed").Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
