package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/pingpong-ladder/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) TallyStore {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return NewTally(db)
}

func TestIncrementAndGetAll(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	// 1. Initially, there should be no metrics
	counters, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, counters)

	// 2. Increment a new key
	require.NoError(t, store.Increment(ctx, KeyMatchesSubmitted))
	counters, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyMatchesSubmitted: 1}, counters)

	// 3. Increment the same key again
	require.NoError(t, store.Increment(ctx, KeyMatchesSubmitted))
	// 4. Increment a different key
	require.NoError(t, store.Increment(ctx, KeyMatchesApproved))
	counters, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyMatchesSubmitted: 2,
		KeyMatchesApproved:  1,
	}, counters)
}

func TestPersistent(t *testing.T) {
	inner := NewMock()
	tally := NewMockTally()
	p := NewPersistent(inner, tally)

	p.IncMatchesSubmitted()
	p.IncMatchesApproved()
	p.IncMatchesRejected()
	p.IncPlayersRegistered()
	p.IncSlackNotifSent()

	assert.Equal(t, 1, inner.MatchesSubmittedCount())
	assert.Equal(t, 1, inner.MatchesApprovedCount())
	assert.Equal(t, 1, inner.SlackNotifSent(), "other calls are forwarded")

	counters, _ := tally.GetAll(context.Background())
	assert.Equal(t, map[string]int{
		KeyMatchesSubmitted:  1,
		KeyMatchesApproved:   1,
		KeyMatchesRejected:   1,
		KeyPlayersRegistered: 1,
	}, counters)
}

func TestPersistent_TallyFailureIsIgnored(t *testing.T) {
	inner := NewMock()
	tally := NewMockTally()
	tally.IncrementFunc = func(ctx context.Context, key string) error { return errors.New("disk full") }

	NewPersistent(inner, tally).IncMatchesApproved()
	assert.Equal(t, 1, inner.MatchesApprovedCount())
}

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesSubmitted()
	s.IncMatchesSubmitted()
	s.IncCommentaryFailed()
	s.IncEventsPublished()

	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchesSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.CommentaryResults.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.CommentaryResults.WithLabelValues("generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.EventsPublished.WithLabelValues("published")))
}
