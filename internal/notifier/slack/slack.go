package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/mauv0809/pingpong-ladder/internal/notifier"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendApprovalRequest(match ladder.Match, names map[string]string, dryRun bool) error {
	msg := s.formatApprovalRequest(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendResultNotification(match ladder.Match, updates []rating.Update, names map[string]string, dryRun bool) error {
	msg := s.formatResultNotification(match, updates, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendRejectionNotification(match ladder.Match, names map[string]string, dryRun bool) error {
	msg := s.formatRejectionNotification(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []ladder.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []ladder.Player) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(player ladder.Player, query string) (any, error) {
	return s.formatPlayerStats(player, query), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func teamName(ids []string, names map[string]string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok && name != "" {
			out = append(out, name)
		} else {
			out = append(out, "Unknown")
		}
	}
	return strings.Join(out, " & ")
}

func scoreLine(sets []ladder.Set) string {
	scores := make([]string, 0, len(sets))
	for _, set := range sets {
		scores = append(scores, fmt.Sprintf("%d-%d", set.TeamA, set.TeamB))
	}
	return strings.Join(scores, ", ")
}

// formatMatchSummary renders the teams and set scores shared by the approval
// and result messages.
func formatMatchSummary(match ladder.Match, names map[string]string) string {
	winsA, winsB := match.SetWins()
	text := fmt.Sprintf("%s vs %s\nSets: %d-%d (%s)",
		teamName(match.TeamA, names),
		teamName(match.TeamB, names),
		winsA, winsB,
		scoreLine(match.Sets),
	)
	return text
}

// formatApprovalRequest creates the Slack message asking an opponent to confirm a result.
func (s *Notifier) formatApprovalRequest(match ladder.Match, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Result waiting for approval 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", formatMatchSummary(match, names), true, false), nil, nil))

	submitter := names[match.SubmittedBy]
	if submitter == "" {
		submitter = "Unknown"
	}
	contextText := fmt.Sprintf("Submitted by %s. An opponent needs to approve it before ratings change.", submitter)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for an approved match using Block Kit.
func (s *Notifier) formatResultNotification(match ladder.Match, updates []rating.Update, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match approved! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	resultText := "Result:"
	if match.Winner.Valid() {
		resultText = fmt.Sprintf("Result: %s won! 🏆", teamName(match.Roster(match.Winner), names))
	}
	var fields []*slack.TextBlockObject
	for _, u := range updates {
		name := names[u.PlayerID]
		if name == "" {
			name = "Unknown"
		}
		fields = append(fields, slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s\n%d → %d (%+d)", name, u.Previous, u.New, u.Delta()), true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText+"\n"+formatMatchSummary(match, names), true, false), fields, nil))

	if match.Commentary != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "🎙️ "+match.Commentary, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRejectionNotification creates the Slack message for a rejected match.
func (s *Notifier) formatRejectionNotification(match ladder.Match, names map[string]string) slack.Message {
	text := fmt.Sprintf("❌ A result was rejected and ratings are unchanged.\n%s", formatMatchSummary(match, names))
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

func winPercentage(p ladder.Player) float64 {
	played := p.Wins + p.Losses
	if played == 0 {
		return 0
	}
	return float64(p.Wins) / float64(played) * 100
}

// formatLeaderboard creates a Slack message to display the ladder ordered by rating.
func (s *Notifier) formatLeaderboard(players []ladder.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Ladder 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Register and go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, player := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Elo: %d | Win %%: %.2f%% (%d/%d)",
			rank,
			medal,
			player.Name,
			player.Rating,
			winPercentage(player),
			player.Wins,
			player.Wins+player.Losses,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(player ladder.Player, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 Stats for %s 🏆", player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Elo*: %d\n> *Match Win %%*: %.2f%% (%d/%d)\n> *Losses*: %d",
		player.Rating,
		winPercentage(player),
		player.Wins,
		player.Wins+player.Losses,
		player.Losses,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	if !strings.EqualFold(strings.TrimSpace(query), player.Name) {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Best match for \"%s\"", query), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
