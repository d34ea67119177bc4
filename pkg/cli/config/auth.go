package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/service/token"
	"github.com/urfave/cli/v3"
)

// Auth holds token signing configuration and the optional bootstrap
// account created at startup
type Auth struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	BootstrapUsername string
	BootstrapEmail    string
	BootstrapPassword string
}

// Flags returns CLI flags for Auth configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "Secret key for signing JWT tokens",
			Category:    "Auth",
			Sources:     cli.EnvVars("UMBRELLA_JWT_SECRET"),
			Destination: &a.JWTSecret,
		},
		&cli.DurationFlag{
			Name:        "access-token-ttl",
			Usage:       "Access token lifetime",
			Category:    "Auth",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("UMBRELLA_ACCESS_TOKEN_TTL"),
			Destination: &a.AccessTTL,
		},
		&cli.DurationFlag{
			Name:        "refresh-token-ttl",
			Usage:       "Refresh token lifetime",
			Category:    "Auth",
			Value:       7 * 24 * time.Hour,
			Sources:     cli.EnvVars("UMBRELLA_REFRESH_TOKEN_TTL"),
			Destination: &a.RefreshTTL,
		},
		&cli.StringFlag{
			Name:        "bootstrap-username",
			Usage:       "Username of the account created at startup when no users exist",
			Category:    "Auth",
			Sources:     cli.EnvVars("UMBRELLA_BOOTSTRAP_USERNAME"),
			Destination: &a.BootstrapUsername,
		},
		&cli.StringFlag{
			Name:        "bootstrap-email",
			Usage:       "Email of the bootstrap account",
			Category:    "Auth",
			Sources:     cli.EnvVars("UMBRELLA_BOOTSTRAP_EMAIL"),
			Destination: &a.BootstrapEmail,
		},
		&cli.StringFlag{
			Name:        "bootstrap-password",
			Usage:       "Password of the bootstrap account",
			Category:    "Auth",
			Sources:     cli.EnvVars("UMBRELLA_BOOTSTRAP_PASSWORD"),
			Destination: &a.BootstrapPassword,
		},
	}
}

// Configure creates the token service
func (a *Auth) Configure() (*token.Service, error) {
	if a.JWTSecret == "" {
		return nil, goerr.New("JWT secret is required. Please provide UMBRELLA_JWT_SECRET")
	}
	return token.New(a.JWTSecret, a.AccessTTL, a.RefreshTTL), nil
}

// HasBootstrapAccount checks whether a bootstrap account is configured
func (a *Auth) HasBootstrapAccount() bool {
	return a.BootstrapUsername != "" && a.BootstrapPassword != ""
}

// LogValue returns structured log value with the secret redacted
func (a Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_jwt_secret", a.JWTSecret != ""),
		slog.Duration("accessTTL", a.AccessTTL),
		slog.Duration("refreshTTL", a.RefreshTTL),
		slog.String("bootstrapUsername", a.BootstrapUsername),
	)
}
