package club_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/pingpong-ladder/internal/cache"
	"github.com/mauv0809/pingpong-ladder/internal/club"
	"github.com/mauv0809/pingpong-ladder/internal/database"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.Store, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return club.New(db, cache.NewStore(time.Minute)), db
}

func newPlayer(id, name string, rating int) ladder.Player {
	now := time.UnixMilli(1_700_000_000_000).UTC()
	return ladder.Player{ID: id, Name: name, Rating: rating, CreatedAt: now, UpdatedAt: now}
}

func addPlayers(t *testing.T, store club.Store, players ...ladder.Player) {
	t.Helper()
	for _, p := range players {
		require.NoError(t, store.AppendPlayer(context.Background(), p, ladder.Credential{Hash: "h-" + p.ID, Salt: "s-" + p.ID}))
	}
}

func pendingMatch(id string) ladder.Match {
	return ladder.Match{
		ID:          id,
		CreatedAt:   time.UnixMilli(1_700_000_100_000).UTC(),
		Type:        ladder.Singles,
		TeamA:       []string{"p1"},
		TeamB:       []string{"p2"},
		Sets:        []ladder.Set{{TeamA: 11, TeamB: 5}, {TeamA: 7, TeamB: 11}, {TeamA: 11, TeamB: 9}},
		Winner:      ladder.TeamA,
		Status:      ladder.StatusPending,
		BestOf:      3,
		SubmittedBy: "p1",
		Commentary:  "A thriller.",
	}
}

func TestAppendAndReadPlayers(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1250))

	players, err := store.ReadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Bob", players[0].Name, "players are sorted by rating")
	assert.Equal(t, newPlayer("p1", "Alice", 1200), players[1])

	p, err := store.GetPlayer(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 1250, p.Rating)

	_, err = store.GetPlayer(ctx, "nope")
	assert.ErrorIs(t, err, ladder.ErrNotFound)

	cred, err := store.GetCredential(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, ladder.Credential{Hash: "h-p1", Salt: "s-p1"}, cred)
}

func TestAppendPlayer_NameTakenIgnoresCase(t *testing.T) {
	store, _ := setupTestDB(t)
	addPlayers(t, store, newPlayer("p1", "Alice", 1200))

	err := store.AppendPlayer(context.Background(), newPlayer("p2", "alice", 1200), ladder.Credential{Hash: "h", Salt: "s"})
	assert.ErrorIs(t, err, ladder.ErrNameTaken)

	players, err := store.ReadPlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 1)
}

func TestReadPlayers_InvalidatedOnWrite(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200))

	players, err := store.ReadPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)

	addPlayers(t, store, newPlayer("p2", "Bob", 1200))
	players, err = store.ReadPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2, "a cached listing must not survive a write")
}

func TestMatchRoundTrip(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))

	m := pendingMatch("m1")
	require.NoError(t, store.AppendMatch(ctx, m))

	got, err := store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	all, err := store.ReadMatches(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, m, all[0])

	_, err = store.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, ladder.ErrNotFound)
}

func TestUpdateMatchStatus(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))
	require.NoError(t, store.AppendMatch(ctx, pendingMatch("m1")))

	m, err := store.UpdateMatchStatus(ctx, "m1", ladder.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusRejected, m.Status)
	assert.NotNil(t, m.ReviewedAt)

	_, err = store.UpdateMatchStatus(ctx, "m1", ladder.StatusApproved)
	assert.ErrorIs(t, err, ladder.ErrInvalidState)

	_, err = store.UpdateMatchStatus(ctx, "missing", ladder.StatusRejected)
	assert.ErrorIs(t, err, ladder.ErrNotFound)

	all, err := store.ReadMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusRejected, all[0].Status)
}

func TestApproveMatch(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))
	require.NoError(t, store.AppendMatch(ctx, pendingMatch("m1")))

	updates := []ladder.PlayerUpdate{
		{ID: "p1", Rating: 1216, Wins: 1, Losses: 0},
		{ID: "p2", Rating: 1184, Wins: 0, Losses: 1},
	}
	var seen map[string]ladder.Player
	var seenStatus ladder.MatchStatus
	settle := func(m ladder.Match, players map[string]ladder.Player) ([]ladder.PlayerUpdate, error) {
		seen, seenStatus = players, m.Status
		return updates, nil
	}
	m, err := store.ApproveMatch(ctx, "m1", settle)
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusApproved, m.Status)
	assert.Equal(t, ladder.StatusApproved, seenStatus)
	require.Len(t, seen, 2)
	assert.Equal(t, 1200, seen["p1"].Rating)

	players, err := store.GetPlayers(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 1216, players["p1"].Rating)
	assert.Equal(t, 1, players["p1"].Wins)
	assert.Equal(t, 1184, players["p2"].Rating)
	assert.Equal(t, 1, players["p2"].Losses)

	_, err = store.ApproveMatch(ctx, "m1", settle)
	assert.ErrorIs(t, err, ladder.ErrInvalidState)
}

func TestApproveMatch_SettlesFromCommittedState(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))
	require.NoError(t, store.AppendMatch(ctx, pendingMatch("m1")))
	second := pendingMatch("m2")
	second.CreatedAt = second.CreatedAt.Add(time.Second)
	require.NoError(t, store.AppendMatch(ctx, second))

	bump := func(m ladder.Match, players map[string]ladder.Player) ([]ladder.PlayerUpdate, error) {
		p := players["p1"]
		return []ladder.PlayerUpdate{{ID: p.ID, Rating: p.Rating + 10, Wins: p.Wins + 1, Losses: p.Losses}}, nil
	}
	_, err := store.ApproveMatch(ctx, "m1", bump)
	require.NoError(t, err)
	_, err = store.ApproveMatch(ctx, "m2", bump)
	require.NoError(t, err)

	p, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1220, p.Rating)
	assert.Equal(t, 2, p.Wins)
}

func TestApproveMatch_SettleErrorRollsBack(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))
	require.NoError(t, store.AppendMatch(ctx, pendingMatch("m1")))

	_, err := store.ApproveMatch(ctx, "m1", func(ladder.Match, map[string]ladder.Player) ([]ladder.PlayerUpdate, error) {
		return nil, ladder.ErrInvalidState
	})
	assert.ErrorIs(t, err, ladder.ErrInvalidState)

	m, err := store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusPending, m.Status)
}

func TestApproveMatch_RollsBackOnUnknownPlayer(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200), newPlayer("p2", "Bob", 1200))
	require.NoError(t, store.AppendMatch(ctx, pendingMatch("m1")))

	_, err := store.ApproveMatch(ctx, "m1", func(ladder.Match, map[string]ladder.Player) ([]ladder.PlayerUpdate, error) {
		return []ladder.PlayerUpdate{
			{ID: "p1", Rating: 1216, Wins: 1},
			{ID: "ghost", Rating: 1184, Losses: 1},
		}, nil
	})
	assert.ErrorIs(t, err, ladder.ErrNotFound)

	m, err := store.GetMatch(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, ladder.StatusPending, m.Status, "status write must roll back")
	p, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1200, p.Rating, "rating write must roll back")
}

func TestUpdatePlayers(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	addPlayers(t, store, newPlayer("p1", "Alice", 1200))

	require.NoError(t, store.UpdatePlayers(ctx, []ladder.PlayerUpdate{{ID: "p1", Rating: 1300, Wins: 3, Losses: 1}}))
	p, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1300, p.Rating)
	assert.Equal(t, 3, p.Wins)

	err = store.UpdatePlayers(ctx, []ladder.PlayerUpdate{{ID: "p1", Rating: 1, Wins: 1}, {ID: "ghost"}})
	assert.ErrorIs(t, err, ladder.ErrNotFound)
	p, err = store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1300, p.Rating, "a failed batch leaves other rows untouched")
}
