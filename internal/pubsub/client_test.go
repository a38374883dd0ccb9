package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessage_DecodesMatchEvent(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	event := MatchEvent{
		Type: EventMatchApproved,
		Match: ladder.Match{
			ID:     "m1",
			Type:   ladder.Singles,
			TeamA:  []string{"p1"},
			TeamB:  []string{"p2"},
			Sets:   []ladder.Set{{TeamA: 11, TeamB: 3}},
			Winner: ladder.TeamA,
			Status: ladder.StatusApproved,
			BestOf: 1,
		},
		Updates: []rating.Update{{PlayerID: "p1", Previous: 1200, New: 1216}},
		At:      at,
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	var got MatchEvent
	require.NoError(t, NewLocal().ProcessMessage(data, &got))
	assert.Equal(t, EventMatchApproved, got.Type)
	assert.Equal(t, "m1", got.Match.ID)
	assert.Equal(t, ladder.TeamA, got.Match.Winner)
	assert.Equal(t, 16, got.Updates[0].Delta())
	assert.True(t, at.Equal(got.At))
}

func TestProcessMessage_RejectsGarbage(t *testing.T) {
	var got MatchEvent
	assert.Error(t, NewLocal().ProcessMessage([]byte{0xc1}, &got))
}

func TestLocal_SendMessage(t *testing.T) {
	assert.NoError(t, NewLocal().SendMessage(context.Background(), EventMatchSubmitted, MatchEvent{Type: EventMatchSubmitted}))
}
