package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/approval"
	"github.com/mauv0809/pingpong-ladder/internal/commentary"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler returns the persisted lifecycle counters.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Tally.GetAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"counters": counters})
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: invalid JSON body", ladder.ErrValidation))
			return
		}
		session, err := s.Auth.Register(r.Context(), req.Name, req.Pin)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: invalid JSON body", ladder.ErrValidation))
			return
		}
		session, err := s.Auth.Login(r.Context(), req.PlayerID, req.Pin)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// ListPlayersHandler returns the ladder, highest rating first.
func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ReadPlayers(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"players": players})
	}
}

// ListMatchesHandler returns matches newest first, optionally filtered by
// ?status=, ?player= and ?limit=.
func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := approval.Filter{
			Status:   ladder.MatchStatus(q.Get("status")),
			PlayerID: q.Get("player"),
		}
		switch filter.Status {
		case "", ladder.StatusPending, ladder.StatusApproved, ladder.StatusRejected:
		default:
			writeError(w, fmt.Errorf("%w: unknown status %q", ladder.ErrValidation, filter.Status))
			return
		}
		if limit := q.Get("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n <= 0 {
				writeError(w, fmt.Errorf("%w: limit must be a positive integer", ladder.ErrValidation))
				return
			}
			filter.Limit = n
		}

		matches, err := s.Workflow.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
	}
}

// PendingMatchesHandler returns the matches waiting for the caller's review.
func (s *Server) PendingMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Workflow.Pending(r.Context(), playerIDFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
	}
}

// SubmitMatchHandler stores a finished match on behalf of the caller. When
// the client sends no commentary one is generated here.
func (s *Server) SubmitMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft ladder.MatchDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, fmt.Errorf("%w: invalid JSON body", ladder.ErrValidation))
			return
		}
		draft.SubmittedBy = playerIDFromContext(r)

		if err := s.validate.StructCtx(r.Context(), draft); err != nil {
			writeError(w, fmt.Errorf("%w: %v", ladder.ErrValidation, err))
			return
		}
		if err := draft.Validate(); err != nil {
			writeError(w, err)
			return
		}

		if draft.Commentary == "" {
			ids := append(append([]string{}, draft.TeamA...), draft.TeamB...)
			players, err := s.Store.GetPlayers(r.Context(), ids)
			if err != nil {
				writeError(w, err)
				return
			}
			names := make(map[string]string, len(players))
			for id, p := range players {
				names[id] = p.Name
			}
			draft.Commentary = s.Commentary.Generate(r.Context(), commentary.FactsFor(draft, names))
		}

		match, err := s.Workflow.Submit(r.Context(), draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"match": match})
	}
}

func (s *Server) ApproveMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.Workflow.Authorize(r.Context(), id, playerIDFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		result, err := s.Workflow.Approve(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) RejectMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.Workflow.Authorize(r.Context(), id, playerIDFromContext(r)); err != nil {
			writeError(w, err)
			return
		}
		match, err := s.Workflow.Reject(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"match": match})
	}
}
