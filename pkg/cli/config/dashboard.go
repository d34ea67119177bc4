package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Dashboard holds the stat card configuration source
type Dashboard struct {
	CardsFile string
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dashboard-cards",
			Usage:       "YAML file defining dashboard stat cards (built-in set when empty)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("UMBRELLA_DASHBOARD_CARDS"),
			Destination: &d.CardsFile,
		},
	}
}

// Configure loads the card definitions, falling back to the built-in set
func (d *Dashboard) Configure() (*model.DashboardConfig, error) {
	if d.CardsFile == "" {
		return model.DefaultDashboardConfig(), nil
	}

	raw, err := os.ReadFile(d.CardsFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dashboard cards file",
			goerr.V("path", d.CardsFile))
	}

	var cfg model.DashboardConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse dashboard cards file",
			goerr.V("path", d.CardsFile))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard cards file",
			goerr.V("path", d.CardsFile))
	}

	return &cfg, nil
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cardsFile", d.CardsFile),
	)
}
