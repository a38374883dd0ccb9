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

type Server struct {
	Store          club.Store
	Auth           *auth.Service
	Workflow       *approval.Workflow
	Commentary     commentary.Generator
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Tally          metrics.TallyStore
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	validate       *validator.Validate
}

type registerRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

type loginRequest struct {
	PlayerID string `json:"playerId"`
	Pin      string `json:"pin"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// pushRequest is the envelope Pub/Sub push subscriptions POST to us.
type pushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"` // base64-encoded message payload
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}
