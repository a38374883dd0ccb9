package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

var names = map[string]string{"p1": "Alice", "p2": "Bob", "p3": "Carol", "p4": "Dave"}

func approvedMatch() ladder.Match {
	return ladder.Match{
		ID:          "m1",
		Type:        ladder.Singles,
		TeamA:       []string{"p1"},
		TeamB:       []string{"p2"},
		Sets:        []ladder.Set{{TeamA: 11, TeamB: 5}, {TeamA: 7, TeamB: 11}, {TeamA: 11, TeamB: 9}},
		Winner:      ladder.TeamA,
		Status:      ladder.StatusApproved,
		BestOf:      3,
		SubmittedBy: "p1",
		Commentary:  "Alice held her nerve.",
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendResultNotification(approvedMatch(), nil, names, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatApprovalRequest(t *testing.T) {
	match := approvedMatch()
	match.Status = ladder.StatusPending
	client := &Notifier{channelID: "C123"}

	msg := client.formatApprovalRequest(match, names)
	require.Len(t, msg.Blocks.BlockSet, 3)

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "🏓 Result waiting for approval 🏓", header.Text.Text)

	summary, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Alice vs Bob\nSets: 2-1 (11-5, 7-11, 11-9)", summary.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	element, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Contains(t, element.Text, "Submitted by Alice")
}

func TestFormatResultNotification(t *testing.T) {
	match := ladder.Match{
		TeamA:      []string{"p1", "p2"},
		TeamB:      []string{"p3", "p4"},
		Sets:       []ladder.Set{{TeamA: 4, TeamB: 11}},
		Winner:     ladder.TeamB,
		BestOf:     1,
		Commentary: "Carol and Dave ran away with it.",
	}
	updates := []rating.Update{
		{PlayerID: "p1", Previous: 1200, New: 1184},
		{PlayerID: "p2", Previous: 1200, New: 1184},
		{PlayerID: "p3", Previous: 1200, New: 1216},
		{PlayerID: "p4", Previous: 1200, New: 1216},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(match, updates, names)

	require.Len(t, msg.Blocks.BlockSet, 3)

	result, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Result: Carol & Dave won! 🏆\nAlice & Bob vs Carol & Dave\nSets: 0-1 (4-11)", result.Text.Text)
	require.Len(t, result.Fields, 4)
	assert.Equal(t, "Alice\n1200 → 1184 (-16)", result.Fields[0].Text)
	assert.Equal(t, "Dave\n1200 → 1216 (+16)", result.Fields[3].Text)

	commentary, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	element, ok := commentary.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "🎙️ Carol and Dave ran away with it.", element.Text)
}

func TestFormatResultNotification_UnknownPlayer(t *testing.T) {
	match := approvedMatch()
	match.Commentary = ""
	client := &Notifier{channelID: "C123"}
	msg := client.formatResultNotification(match, nil, map[string]string{"p1": "Alice"})

	require.Len(t, msg.Blocks.BlockSet, 2, "no commentary block without commentary")
	result := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, result.Text.Text, "Alice vs Unknown")
}

func TestFormatRejectionNotification(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatRejectionNotification(approvedMatch(), names)
	require.Len(t, msg.Blocks.BlockSet, 1)
	section := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "rejected")
	assert.Contains(t, section.Text.Text, "Alice vs Bob")
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("displays ladder by rating", func(t *testing.T) {
		players := []ladder.Player{
			{Name: "Alice", Rating: 1290, Wins: 8, Losses: 2},
			{Name: "Bob", Rating: 1240, Wins: 6, Losses: 4},
			{Name: "Carol", Rating: 1180, Wins: 4, Losses: 6},
		}

		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(players)

		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks (header + 3 players)")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Ladder 🏆", header.Text.Text)

		player1, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player1.Text.Text, "1. 🥇 Alice")
		assert.Contains(t, player1.Text.Text, "> Elo: 1290 | Win %: 80.00% (8/10)")

		player2, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player2.Text.Text, "2. 🥈 Bob")

		player3, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player3.Text.Text, "3. 🥉 Carol")
	})

	t.Run("displays message when there are no players", func(t *testing.T) {
		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(nil)

		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")
		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No players yet. Register and go play some matches!", message.Text.Text)
	})
}

func TestFormatPlayerStats(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("formats stats for a found player", func(t *testing.T) {
		player := ladder.Player{Name: "Alice Smith", Rating: 1290, Wins: 8, Losses: 2}

		msg := client.formatPlayerStats(player, "alice")
		require.Len(t, msg.Blocks.BlockSet, 3)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Stats for Alice Smith 🏆", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "> *Elo*: 1290")
		assert.Contains(t, section.Text.Text, "> *Match Win %*: 80.00% (8/10)")
	})

	t.Run("exact name has no fuzzy hint", func(t *testing.T) {
		msg := client.formatPlayerStats(ladder.Player{Name: "Bob"}, "bob")
		require.Len(t, msg.Blocks.BlockSet, 2)
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Contains(t, section.Text.Text, "0.00% (0/0)")
	})

	t.Run("formats message for a player not found", func(t *testing.T) {
		msg := client.formatPlayerNotFound("Unknown Player")
		require.Len(t, msg.Blocks.BlockSet, 1)

		section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Sorry, I couldn't find a player matching *Unknown Player*. Try a different name.", section.Text.Text)
	})
}
