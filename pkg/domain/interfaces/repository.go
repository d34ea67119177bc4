package interfaces

import (
	"context"

	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id types.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Alert operations
	SaveAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, id types.AlertID) (*model.Alert, error)
	ListAlerts(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error)
	// ListAllAlerts returns every stored alert, oldest first. Stats
	// aggregation consumes this.
	ListAllAlerts(ctx context.Context) ([]*model.Alert, error)

	// Close closes the repository connection
	Close() error
}
