package notifier

import (
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/mauv0809/pingpong-ladder/internal/rating"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For the approval lifecycle
	SendApprovalRequest(match ladder.Match, names map[string]string, dryRun bool) error
	SendResultNotification(match ladder.Match, updates []rating.Update, names map[string]string, dryRun bool) error
	SendRejectionNotification(match ladder.Match, names map[string]string, dryRun bool) error
	// For slash commands
	SendLeaderboard(players []ladder.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []ladder.Player) (any, error)
	FormatPlayerStatsResponse(player ladder.Player, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
