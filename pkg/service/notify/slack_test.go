package notify

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

type fakePoster struct {
	calls    int
	channels []string
}

func (f *fakePoster) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.calls++
	f.channels = append(f.channels, channelID)
	return channelID, "ts", nil
}

func TestNotifyAlert(t *testing.T) {
	poster := &fakePoster{}
	notifier := &SlackNotifier{client: poster, channelID: "C123"}

	err := notifier.NotifyAlert(context.Background(), &model.Alert{
		ID:       "a1",
		Title:    "Suspicious sign-in",
		Channel:  "email",
		Severity: types.SeverityCritical,
		Status:   types.AlertStatusOpen,
	})
	gt.NoError(t, err).Required()
	gt.Equal(t, 1, poster.calls)
	gt.Equal(t, []string{"C123"}, poster.channels)
}

func TestShouldNotify(t *testing.T) {
	gt.True(t, ShouldNotify(&model.Alert{Severity: types.SeverityCritical}))
	gt.True(t, !ShouldNotify(&model.Alert{Severity: types.SeverityHigh}))
	gt.True(t, !ShouldNotify(&model.Alert{Severity: types.SeverityLow}))
}
