package config

import (
	"log/slog"

	"github.com/umbrella-sec/umbrella/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for alert notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("UMBRELLA_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for alert notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("UMBRELLA_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
	}
}

// IsConfigured checks if Slack notifications are configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// ConfigureOptional creates the Slack notifier, or nil when not configured
func (s *Slack) ConfigureOptional() *notify.SlackNotifier {
	if !s.IsConfigured() {
		return nil
	}
	return notify.NewSlack(s.OAuthToken, s.ChannelID)
}

// LogValue returns structured log value with the token redacted
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channelID", s.ChannelID),
	)
}
