// Package notify posts alert notifications to Slack.
package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// slackPoster is the subset of the Slack client used by the notifier
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts high-severity alerts to a Slack channel
type SlackNotifier struct {
	client    slackPoster
	channelID string
}

// NewSlack creates a Slack notifier posting to the given channel
func NewSlack(oauthToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(oauthToken),
		channelID: channelID,
	}
}

// NotifyAlert posts a message describing the alert
func (n *SlackNotifier) NotifyAlert(ctx context.Context, alert *model.Alert) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf(":rotating_light: %s alert", alert.Severity), false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*%s*", alert.Title), false, false),
			[]*slack.TextBlockObject{
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*Channel:*\n%s", alert.Channel), false, false),
				slack.NewTextBlockObject(slack.MarkdownType,
					fmt.Sprintf("*Status:*\n%s", alert.Status), false, false),
			},
			nil,
		),
	}

	_, _, err := n.client.PostMessageContext(ctx, n.channelID, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return goerr.Wrap(err, "failed to post alert notification",
			goerr.V("alertID", alert.ID),
			goerr.V("channelID", n.channelID),
		)
	}

	ctxlog.From(ctx).Info("Posted alert notification",
		"alertID", alert.ID,
		"severity", alert.Severity,
	)

	return nil
}

// ShouldNotify reports whether the alert severity warrants a notification
func ShouldNotify(alert *model.Alert) bool {
	return alert.Severity == types.SeverityCritical
}
