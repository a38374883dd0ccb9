package approval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/pubsub"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
)

// New creates a new Workflow.
func New(store Store, pubsub pubsub.PubSubClient, metrics metrics.Metrics) *Workflow {
	return &Workflow{
		store:   store,
		pubsub:  pubsub,
		metrics: metrics,
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// Submit stores a finished match as PENDING. Ratings are not touched.
func (w *Workflow) Submit(ctx context.Context, draft ladder.MatchDraft) (ladder.Match, error) {
	if err := draft.Validate(); err != nil {
		return ladder.Match{}, err
	}

	match := ladder.Match{
		ID:          uuid.NewString(),
		CreatedAt:   w.now().UTC().Truncate(time.Millisecond),
		Type:        draft.Type,
		TeamA:       draft.TeamA,
		TeamB:       draft.TeamB,
		Sets:        draft.Sets,
		Winner:      draft.Winner,
		Status:      ladder.StatusPending,
		BestOf:      draft.BestOf,
		SubmittedBy: draft.SubmittedBy,
		Commentary:  draft.Commentary,
	}
	if match.Sets == nil {
		match.Sets = []ladder.Set{}
	}
	if err := w.store.AppendMatch(ctx, match); err != nil {
		log.Error("Failed to store submitted match", "error", err, "submittedBy", draft.SubmittedBy)
		return ladder.Match{}, err
	}
	w.metrics.IncMatchesSubmitted()
	log.Info("Match submitted", "matchID", match.ID, "type", match.Type, "submittedBy", match.SubmittedBy)

	w.publish(ctx, pubsub.MatchEvent{Type: pubsub.EventMatchSubmitted, Match: match})
	return match, nil
}

// Approve applies the rating change of a PENDING match and marks it
// APPROVED. Concurrent calls for the same match are serialized and only the
// first succeeds. Ratings are computed from the players as read inside the
// store transaction, so approvals of matches sharing a player never overwrite
// each other. Nothing is written unless everything is.
func (w *Workflow) Approve(ctx context.Context, id string) (Result, error) {
	start := w.now()
	unlock := w.locks.Lock(id)
	result, err := w.approve(ctx, id)
	unlock()
	if err != nil {
		return Result{}, err
	}

	w.metrics.IncMatchesApproved()
	w.metrics.ObserveApprovalDuration(w.now().Sub(start).Seconds())
	log.Info("Match approved", "matchID", id, "winner", result.Match.Winner, "players", len(result.Players))

	w.publish(ctx, pubsub.MatchEvent{Type: pubsub.EventMatchApproved, Match: result.Match, Players: result.Players, Updates: result.Updates})
	return result, nil
}

func (w *Workflow) approve(ctx context.Context, id string) (Result, error) {
	match, err := w.store.GetMatch(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if match.Status != ladder.StatusPending {
		return Result{}, fmt.Errorf("%w: match %s is already %s", ladder.ErrInvalidState, id, match.Status)
	}
	if !match.Winner.Valid() {
		return Result{}, fmt.Errorf("%w: match %s has no declared winner", ladder.ErrInvalidState, id)
	}

	var result Result
	approved, err := w.store.ApproveMatch(ctx, id, func(m ladder.Match, players map[string]ladder.Player) ([]ladder.PlayerUpdate, error) {
		if !m.Winner.Valid() {
			return nil, fmt.Errorf("%w: match %s has no declared winner", ladder.ErrInvalidState, id)
		}
		var snapshots []ladder.PlayerUpdate
		result.Updates, result.Players, snapshots = settle(m, players)
		return snapshots, nil
	})
	if err != nil {
		log.Error("Failed to approve match", "error", err, "matchID", id)
		return Result{}, err
	}
	if approved.ReviewedAt != nil {
		for i := range result.Players {
			result.Players[i].UpdatedAt = *approved.ReviewedAt
		}
	}
	result.Match = approved
	return result, nil
}

// settle applies the Elo outcome of match to players. Rostered ids missing
// from players are skipped.
func settle(match ladder.Match, players map[string]ladder.Player) ([]rating.Update, []ladder.Player, []ladder.PlayerUpdate) {
	ratings := make(map[string]int, len(players))
	for pid, p := range players {
		ratings[pid] = p.Rating
	}
	for _, pid := range append(append([]string{}, match.TeamA...), match.TeamB...) {
		if _, ok := ratings[pid]; !ok {
			log.Warn("Skipping unknown player in rating update", "matchID", match.ID, "playerID", pid)
		}
	}

	updates := rating.Calculate(match.TeamA, match.TeamB, match.Winner, ratings)
	updated := make([]ladder.Player, 0, len(updates))
	snapshots := make([]ladder.PlayerUpdate, 0, len(updates))
	for _, u := range updates {
		p := players[u.PlayerID]
		p.Rating = u.New
		if match.TeamOf(u.PlayerID) == match.Winner {
			p.Wins++
		} else {
			p.Losses++
		}
		updated = append(updated, p)
		snapshots = append(snapshots, ladder.PlayerUpdate{ID: p.ID, Rating: p.Rating, Wins: p.Wins, Losses: p.Losses})
	}
	return updates, updated, snapshots
}

// Reject marks a PENDING match REJECTED. Ratings are not touched.
func (w *Workflow) Reject(ctx context.Context, id string) (ladder.Match, error) {
	unlock := w.locks.Lock(id)
	rejected, err := w.store.UpdateMatchStatus(ctx, id, ladder.StatusRejected)
	unlock()
	if err != nil {
		return ladder.Match{}, err
	}
	w.metrics.IncMatchesRejected()
	log.Info("Match rejected", "matchID", id)

	w.publish(ctx, pubsub.MatchEvent{Type: pubsub.EventMatchRejected, Match: rejected})
	return rejected, nil
}

// CanReview reports whether actorID may approve or reject match: they played
// in it and did not submit it.
func CanReview(match ladder.Match, actorID string) bool {
	return actorID != "" && actorID != match.SubmittedBy && match.Involves(actorID)
}

// Authorize checks that actorID may review the match with the given id.
func (w *Workflow) Authorize(ctx context.Context, id, actorID string) error {
	match, err := w.store.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	if !CanReview(match, actorID) {
		return fmt.Errorf("%w: player %s cannot review match %s", ladder.ErrForbidden, actorID, id)
	}
	return nil
}

// Pending returns the PENDING matches waiting for playerID to review them,
// newest first.
func (w *Workflow) Pending(ctx context.Context, playerID string) ([]ladder.Match, error) {
	matches, err := w.store.ReadMatches(ctx)
	if err != nil {
		return nil, err
	}
	pending := []ladder.Match{}
	for _, m := range matches {
		if m.Status == ladder.StatusPending && CanReview(m, playerID) {
			pending = append(pending, m)
		}
	}
	newestFirst(pending)
	return pending, nil
}

// Filter selects matches for listing.
type Filter struct {
	Status   ladder.MatchStatus
	PlayerID string
	Limit    int
}

// List returns matches matching f, newest first.
func (w *Workflow) List(ctx context.Context, f Filter) ([]ladder.Match, error) {
	matches, err := w.store.ReadMatches(ctx)
	if err != nil {
		return nil, err
	}
	out := []ladder.Match{}
	for _, m := range matches {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.PlayerID != "" && !m.Involves(f.PlayerID) {
			continue
		}
		out = append(out, m)
	}
	newestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func newestFirst(matches []ladder.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
}

func (w *Workflow) publish(ctx context.Context, event pubsub.MatchEvent) {
	event.At = w.now().UTC()
	if err := w.pubsub.SendMessage(ctx, event.Type, event); err != nil {
		log.Warn("Failed to publish match event", "error", err, "event", event.Type, "matchID", event.Match.ID)
	}
}
