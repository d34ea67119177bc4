package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu     sync.RWMutex
	users  map[types.UserID]*model.User
	alerts map[types.AlertID]*model.Alert
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		users:  make(map[types.UserID]*model.User),
		alerts: make(map[types.AlertID]*model.Alert),
	}
}

// SaveUser saves a user to memory
func (m *Memory) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to prevent external modifications
	userCopy := *user
	m.users[user.ID] = &userCopy

	return nil
}

// GetUser retrieves a user by ID
func (m *Memory) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
	}

	userCopy := *user
	return &userCopy, nil
}

// GetUserByUsername retrieves a user by username
func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, goerr.New("username is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			userCopy := *user
			return &userCopy, nil
		}
	}

	return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("username", username))
}

// SaveAlert saves an alert to memory
func (m *Memory) SaveAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if err := alert.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	alertCopy := *alert
	m.alerts[alert.ID] = &alertCopy

	return nil
}

// GetAlert retrieves an alert by ID
func (m *Memory) GetAlert(ctx context.Context, id types.AlertID) (*model.Alert, error) {
	if id == "" {
		return nil, goerr.New("alert ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	alert, exists := m.alerts[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
	}

	alertCopy := *alert
	return &alertCopy, nil
}

// ListAlerts lists alerts with filtering and pagination
func (m *Memory) ListAlerts(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*model.Alert
	for _, alert := range m.alerts {
		if filter != nil {
			if filter.Severity != "" && alert.Severity != filter.Severity {
				continue
			}
			if filter.Status != "" && alert.Status != filter.Status {
				continue
			}
		}
		alertCopy := *alert
		matched = append(matched, &alertCopy)
	}

	// Sort by creation time (newest first)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset, limit := 0, total
	if filter != nil {
		offset = filter.Offset
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &model.AlertList{
		Items:  matched[offset:end],
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, nil
}

// ListAllAlerts returns every stored alert, oldest first
func (m *Memory) ListAllAlerts(ctx context.Context) ([]*model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	alerts := make([]*model.Alert, 0, len(m.alerts))
	for _, alert := range m.alerts {
		alertCopy := *alert
		alerts = append(alerts, &alertCopy)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
	})

	return alerts, nil
}

// Close is a no-op for the memory repository
func (m *Memory) Close() error {
	return nil
}
