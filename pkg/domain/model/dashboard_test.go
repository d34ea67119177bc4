package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
)

func TestDefaultDashboardConfig(t *testing.T) {
	cfg := model.DefaultDashboardConfig()
	gt.NoError(t, cfg.Validate())
	gt.Equal(t, 4, len(cfg.Cards))
}

func TestDashboardConfigValidate(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		cfg := &model.DashboardConfig{}
		gt.Error(t, cfg.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		cfg := &model.DashboardConfig{
			Cards: []model.CardConfig{{Metric: model.MetricTotal}},
		}
		gt.Error(t, cfg.Validate())
	})

	t.Run("unknown metric", func(t *testing.T) {
		cfg := &model.DashboardConfig{
			Cards: []model.CardConfig{{Title: "X", Metric: "p99_latency"}},
		}
		gt.Error(t, cfg.Validate())
	})
}

func TestBuildCards(t *testing.T) {
	stats := &model.AlertStats{
		Total: 42,
		BySeverity: []model.StatsBucket{
			{Key: "high", Count: 12},
			{Key: "critical", Count: 5},
			{Key: "medium", Count: 15},
			{Key: "low", Count: 10},
		},
	}

	cards := model.DefaultDashboardConfig().BuildCards(stats)
	gt.Equal(t, 4, len(cards))
	gt.Equal(t, 42, cards[0].Value)
	gt.Equal(t, 5, cards[1].Value)
	gt.Equal(t, 12, cards[2].Value)
	gt.Equal(t, 15, cards[3].Value)

	gt.Equal(t, model.VariantCritical, cards[1].Variant)
}
