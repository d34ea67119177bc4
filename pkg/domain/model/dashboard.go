package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// Card metric sources
const (
	MetricTotal    = "total"
	MetricCritical = "critical"
	MetricHigh     = "high"
	MetricMedium   = "medium"
)

// CardConfig defines a single stat card on the dashboard
type CardConfig struct {
	Title   string  `yaml:"title"`
	Icon    string  `yaml:"icon"`
	Variant Variant `yaml:"variant"`
	Metric  string  `yaml:"metric"`
}

// Validate validates the card definition
func (c *CardConfig) Validate() error {
	if c.Title == "" {
		return goerr.New("card title is required")
	}
	if c.Metric == "" {
		return goerr.New("card metric is required", goerr.V("title", c.Title))
	}
	switch c.Metric {
	case MetricTotal, MetricCritical, MetricHigh, MetricMedium:
		return nil
	}
	return goerr.New("unknown card metric",
		goerr.V("title", c.Title),
		goerr.V("metric", c.Metric))
}

// DashboardConfig represents the dashboard card configuration
type DashboardConfig struct {
	Cards []CardConfig `yaml:"cards"`
}

// Validate validates the dashboard configuration
func (c *DashboardConfig) Validate() error {
	if len(c.Cards) == 0 {
		return goerr.New("at least one card is required")
	}
	for i, card := range c.Cards {
		if err := card.Validate(); err != nil {
			return goerr.Wrap(err, "invalid card at index", goerr.V("index", i))
		}
	}
	return nil
}

// DefaultDashboardConfig returns the built-in card set used when no
// configuration file is given
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Cards: []CardConfig{
			{Title: "Total Alerts", Icon: "bell", Variant: VariantDefault, Metric: MetricTotal},
			{Title: "Critical", Icon: "alert-octagon", Variant: VariantCritical, Metric: MetricCritical},
			{Title: "High", Icon: "alert-triangle", Variant: VariantHigh, Metric: MetricHigh},
			{Title: "Medium", Icon: "alert-circle", Variant: VariantMedium, Metric: MetricMedium},
		},
	}
}

// BuildCards materializes stat cards from the configuration and stats
func (c *DashboardConfig) BuildCards(stats *AlertStats) []StatCard {
	cards := make([]StatCard, 0, len(c.Cards))
	for _, def := range c.Cards {
		card := StatCard{
			Title:   def.Title,
			Icon:    def.Icon,
			Variant: def.Variant,
		}
		switch def.Metric {
		case MetricTotal:
			card.Value = stats.Total
		case MetricCritical:
			card.Value = stats.CountBySeverity(types.SeverityCritical)
		case MetricHigh:
			card.Value = stats.CountBySeverity(types.SeverityHigh)
		case MetricMedium:
			card.Value = stats.CountBySeverity(types.SeverityMedium)
		}
		cards = append(cards, card)
	}
	return cards
}
