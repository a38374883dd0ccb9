package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
)

type client struct {
	client  *pubsub.Client
	metrics metrics.Metrics
}

// EventType represents the type of event/message sent via pubsub. It is also
// the topic the event is published to.
type EventType string

const (
	EventMatchSubmitted EventType = "match-submitted"
	EventMatchApproved  EventType = "match-approved"
	EventMatchRejected  EventType = "match-rejected"
)

// MatchEvent is the payload of every match lifecycle event.
type MatchEvent struct {
	Type    EventType       `msgpack:"type"`
	Match   ladder.Match    `msgpack:"match"`
	Players []ladder.Player `msgpack:"players,omitempty"`
	Updates []rating.Update `msgpack:"updates,omitempty"`
	At      time.Time       `msgpack:"at"`
}
