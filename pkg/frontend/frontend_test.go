package frontend_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/frontend"
)

func TestRenderStatCard(t *testing.T) {
	renderer, err := frontend.New()
	gt.NoError(t, err).Required()

	t.Run("formats large values with thousands separators", func(t *testing.T) {
		var buf bytes.Buffer
		card := model.StatCard{Title: "Total Alerts", Value: 12000, Icon: "bell", Variant: model.VariantDefault}
		gt.NoError(t, renderer.RenderStatCard(&buf, card))

		html := buf.String()
		gt.S(t, html).Contains("12,000")
		gt.S(t, html).Contains("Total Alerts")
		gt.S(t, html).Contains("stat-card-default")
	})

	t.Run("unrecognized variant renders without color class", func(t *testing.T) {
		var buf bytes.Buffer
		card := model.StatCard{Title: "Weird", Value: 7, Variant: model.Variant("ultraviolet")}
		gt.NoError(t, renderer.RenderStatCard(&buf, card))

		html := buf.String()
		gt.S(t, html).Contains("Weird")
		gt.True(t, !strings.Contains(html, "stat-card-critical"))
		gt.True(t, !strings.Contains(html, "stat-card-high"))
		gt.True(t, !strings.Contains(html, "stat-card-medium"))
	})
}

func TestRenderDashboard(t *testing.T) {
	renderer, err := frontend.New()
	gt.NoError(t, err).Required()

	stats := &model.AlertStats{
		Total: 42,
		BySeverity: []model.StatsBucket{
			{Key: "critical", Count: 5},
		},
		ByChannel: []model.StatsBucket{
			{Key: "email", Count: 42},
		},
		OverTime: []model.TimePoint{
			{Date: "2026-08-01", Count: 42},
		},
	}
	cards := model.DefaultDashboardConfig().BuildCards(stats)

	var buf bytes.Buffer
	gt.NoError(t, renderer.RenderDashboard(&buf, cards, stats))

	html := buf.String()
	gt.S(t, html).Contains("Alerts Over Time")
	gt.S(t, html).Contains("Alerts by Severity")
	gt.S(t, html).Contains("Alerts by Channel")
	gt.S(t, html).Contains("42")
	gt.S(t, html).Contains("critical")
	gt.S(t, html).Contains("email")
}
