package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	usersCollection  = "users"
	alertsCollection = "alerts"

	// Field names
	fieldUsername  = "username"
	fieldSeverity  = "severity"
	fieldStatus    = "status"
	fieldCreatedAt = "created_at"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Test connection by attempting to read from a collection.
	// This fails fast on invalid project IDs and permission issues.
	_, err = client.Collection(alertsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		// Other errors (like NotFound for new projects) may just mean an
		// empty collection, so log and continue
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// SaveUser saves a user to Firestore
func (f *Firestore) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	_, err := f.client.Collection(usersCollection).Doc(user.ID.String()).Set(ctx, user)
	if err != nil {
		return goerr.Wrap(err, "failed to save user to firestore")
	}

	return nil
}

// GetUser retrieves a user by ID from Firestore
func (f *Firestore) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	doc, err := f.client.Collection(usersCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user from firestore")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user document")
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by username from Firestore
func (f *Firestore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, goerr.New("username is empty")
	}

	iter := f.client.Collection(usersCollection).
		Where(fieldUsername, "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("username", username))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by username")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user document")
	}

	return &user, nil
}

// SaveAlert saves an alert to Firestore
func (f *Firestore) SaveAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if err := alert.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert")
	}

	_, err := f.client.Collection(alertsCollection).Doc(alert.ID.String()).Set(ctx, alert)
	if err != nil {
		return goerr.Wrap(err, "failed to save alert to firestore")
	}

	return nil
}

// GetAlert retrieves an alert by ID from Firestore
func (f *Firestore) GetAlert(ctx context.Context, id types.AlertID) (*model.Alert, error) {
	if id == "" {
		return nil, goerr.New("alert ID is empty")
	}

	doc, err := f.client.Collection(alertsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get alert from firestore")
	}

	var alert model.Alert
	if err := doc.DataTo(&alert); err != nil {
		return nil, goerr.Wrap(err, "failed to decode alert document")
	}

	return &alert, nil
}

// ListAlerts lists alerts with filtering and pagination
func (f *Firestore) ListAlerts(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error) {
	query := f.client.Collection(alertsCollection).Query
	if filter != nil {
		if filter.Severity != "" {
			query = query.Where(fieldSeverity, "==", filter.Severity.String())
		}
		if filter.Status != "" {
			query = query.Where(fieldStatus, "==", filter.Status.String())
		}
	}

	// Fetch matching documents and paginate in memory; the alert volume
	// behind a single dashboard stays small enough for this
	iter := query.OrderBy(fieldCreatedAt, firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var matched []*model.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate alerts")
		}

		var alert model.Alert
		if err := doc.DataTo(&alert); err != nil {
			return nil, goerr.Wrap(err, "failed to decode alert document")
		}
		matched = append(matched, &alert)
	}

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
func (f *Firestore) ListAllAlerts(ctx context.Context) ([]*model.Alert, error) {
	iter := f.client.Collection(alertsCollection).Documents(ctx)
	defer iter.Stop()

	var alerts []*model.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate alerts")
		}

		var alert model.Alert
		if err := doc.DataTo(&alert); err != nil {
			return nil, goerr.Wrap(err, "failed to decode alert document")
		}
		alerts = append(alerts, &alert)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
	})

	return alerts, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
