package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/club"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
	"github.com/slack-go/slack"
)

const leaderboardSize = 10

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ReadPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		if len(players) > leaderboardSize {
			players = players[:leaderboardSize]
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(players)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

// PlayerLookupCommandHandler returns a handler for the /ladder <name> Slack
// command. The name is matched loosely against registered players.
func (s *Server) PlayerLookupCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		if query == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player lookup command", "query", query)
		players, err := s.Store.ReadPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}

		var msg any
		if found := club.SearchPlayers(players, query); len(found) > 0 {
			log.Debug("Player lookup matched", "query", query, "player", found[0].Player.Name, "confidence", found[0].Confidence, "reasons", found[0].Reasons)
			msg, err = s.Notifier.FormatPlayerStatsResponse(found[0].Player, query)
		} else {
			log.Warn("Could not find player", "query", query)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(query)
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}

// postLeaderboard posts the current top of the ladder to the channel. The
// result notification has already gone out, so failures are only logged to
// keep Pub/Sub from redelivering it.
func (s *Server) postLeaderboard(r *http.Request, dryRun bool) {
	players, err := s.Store.ReadPlayers(r.Context())
	if err != nil {
		log.Error("Failed to get players for leaderboard", "error", err)
		return
	}
	if len(players) > leaderboardSize {
		players = players[:leaderboardSize]
	}
	if err := s.Notifier.SendLeaderboard(players, dryRun); err != nil {
		log.Error("Failed to post leaderboard", "error", err)
	}
}

// MatchEventsHandler receives match lifecycle events from a Pub/Sub push
// subscription and posts the matching Slack notification.
func (s *Server) MatchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match event message", "body", string(bodyBytes))

		var push pushRequest
		if err := json.Unmarshal(bodyBytes, &push); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(push.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		var event pubsub.MatchEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		ids := append(append([]string{}, event.Match.TeamA...), event.Match.TeamB...)
		players, err := s.Store.GetPlayers(r.Context(), ids)
		if err != nil {
			log.Error("Failed to load players for notification", "error", err, "matchID", event.Match.ID)
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		names := make(map[string]string, len(players))
		for id, p := range players {
			names[id] = p.Name
		}

		isDryRun := isDryRunFromContext(r)
		switch event.Type {
		case pubsub.EventMatchSubmitted:
			err = s.Notifier.SendApprovalRequest(event.Match, names, isDryRun)
		case pubsub.EventMatchApproved:
			err = s.Notifier.SendResultNotification(event.Match, event.Updates, names, isDryRun)
		case pubsub.EventMatchRejected:
			err = s.Notifier.SendRejectionNotification(event.Match, names, isDryRun)
		default:
			log.Warn("Ignoring unknown match event", "event", event.Type, "matchID", event.Match.ID)
		}
		if err != nil {
			log.Error("Failed to send match notification", "error", err, "event", event.Type, "matchID", event.Match.ID)
			http.Error(w, "Failed to send notification", http.StatusInternalServerError)
			return
		}
		if event.Type == pubsub.EventMatchApproved {
			s.postLeaderboard(r, isDryRun)
		}
		w.Write([]byte("OK"))
	}
}
