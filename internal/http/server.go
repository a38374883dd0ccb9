package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/pingpong-ladder/internal/approval"
	"github.com/mauv0809/pingpong-ladder/internal/auth"
	"github.com/mauv0809/pingpong-ladder/internal/club"
	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/config"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/notifier"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
)

func NewServer(store club.Store, authSvc *auth.Service, workflow *approval.Workflow, generator commentary.Generator, notifier notifier.Notifier, metricsSvc metrics.Metrics, metricsHandler http.Handler, tally metrics.TallyStore, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Auth:           authSvc,
		Workflow:       workflow,
		Commentary:     generator,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Tally:          tally,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		validate:       validator.New(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, s.authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/stats", Chain(s.StatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/auth/register", Chain(s.RegisterHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/auth/login", Chain(s.LoginHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/matches/pending", Chain(s.PendingMatchesHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /api/matches", Chain(s.SubmitMatchHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("PATCH /api/matches/{id}/approve", Chain(s.ApproveMatchHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("PATCH /api/matches/{id}/reject", Chain(s.RejectMatchHandler(), paramsMiddleware, s.authMiddleware))

	s.Router.Handle("POST /slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware, s.slackVerifyMiddleware))
	s.Router.Handle("POST /slack/command/ladder", Chain(s.PlayerLookupCommandHandler(), paramsMiddleware, s.slackVerifyMiddleware))
	s.Router.Handle("POST /pubsub/match-events", Chain(s.MatchEventsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
