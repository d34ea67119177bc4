package usecase

import (
	"context"

	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// AuthUseCase defines the interface for authentication operations
type AuthUseCase interface {
	// Login verifies credentials and issues a token pair
	Login(ctx context.Context, creds *model.Credentials) (*model.TokenPair, error)

	// Refresh exchanges a refresh token for a new token pair
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)

	// ValidateAccessToken verifies an access token and returns its auth context
	ValidateAccessToken(ctx context.Context, accessToken string) (*model.AuthContext, error)

	// GetUser returns the user profile for an authenticated user
	GetUser(ctx context.Context, id types.UserID) (*model.User, error)

	// EnsureUser creates the user if it does not exist yet
	EnsureUser(ctx context.Context, username, email, password string, roles []string) (*model.User, error)
}

// AlertsUseCase defines the interface for alert statistics and review
type AlertsUseCase interface {
	// GetStats aggregates stored alerts into dashboard statistics
	GetStats(ctx context.Context, filter *model.StatsFilter) (*model.AlertStats, error)

	// List returns a filtered, paginated alert listing
	List(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error)

	// Ingest persists an alert delivered by the upstream pipeline
	Ingest(ctx context.Context, alert *model.Alert) (*model.Alert, error)
}

// AlertNotifier posts an out-of-band notification for an alert
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, alert *model.Alert) error
}

// StatsCache caches computed statistics keyed by filter
type StatsCache interface {
	Get(ctx context.Context, key string) (*model.AlertStats, error)
	Set(ctx context.Context, key string, stats *model.AlertStats) error
}
