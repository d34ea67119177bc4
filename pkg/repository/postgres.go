package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// Postgres implements Repository interface with PostgreSQL via pgx
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres repository and ensures the schema exists
func NewPostgres(ctx context.Context, databaseURL string) (interfaces.Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse database URL")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping database")
	}

	repo := &Postgres{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	ctxlog.From(ctx).Info("Postgres repository initialized successfully")

	return repo, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			roles TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			channel TEXT NOT NULL DEFAULT '',
			severity TEXT NOT NULL,
			status TEXT NOT NULL,
			risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts (created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to ensure schema")
		}
	}

	return nil
}

// SaveUser upserts a user
func (p *Postgres) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_active, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			roles = EXCLUDED.roles,
			updated_at = EXCLUDED.updated_at
	`, user.ID.String(), user.Username, user.Email, user.PasswordHash,
		user.IsActive, user.Roles, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to save user")
	}

	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var id string
	err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.Roles, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ID = types.UserID(id)
	return &user, nil
}

// GetUser retrieves a user by ID
func (p *Postgres) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	row := p.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, is_active, roles, created_at, updated_at
		FROM users WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user")
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, goerr.New("username is empty")
	}

	row := p.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, is_active, roles, created_at, updated_at
		FROM users WHERE username = $1
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no such user", goerr.V("username", username))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user by username")
	}

	return user, nil
}

// SaveAlert upserts an alert
func (p *Postgres) SaveAlert(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return goerr.New("alert is nil")
	}
	if err := alert.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO alerts (id, title, channel, severity, status, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			channel = EXCLUDED.channel,
			severity = EXCLUDED.severity,
			status = EXCLUDED.status,
			risk_score = EXCLUDED.risk_score
	`, alert.ID.String(), alert.Title, alert.Channel.String(),
		alert.Severity.String(), alert.Status.String(), alert.RiskScore, alert.CreatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to save alert")
	}

	return nil
}

func scanAlert(row pgx.Row) (*model.Alert, error) {
	var alert model.Alert
	var id, channel, severity, alertStatus string
	err := row.Scan(&id, &alert.Title, &channel, &severity, &alertStatus,
		&alert.RiskScore, &alert.CreatedAt)
	if err != nil {
		return nil, err
	}
	alert.ID = types.AlertID(id)
	alert.Channel = types.Channel(channel)
	alert.Severity = types.Severity(severity)
	alert.Status = types.AlertStatus(alertStatus)
	return &alert, nil
}

// GetAlert retrieves an alert by ID
func (p *Postgres) GetAlert(ctx context.Context, id types.AlertID) (*model.Alert, error) {
	if id == "" {
		return nil, goerr.New("alert ID is empty")
	}

	row := p.pool.QueryRow(ctx, `
		SELECT id, title, channel, severity, status, risk_score, created_at
		FROM alerts WHERE id = $1
	`, id.String())

	alert, err := scanAlert(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get alert")
	}

	return alert, nil
}

// ListAlerts lists alerts with filtering and pagination
func (p *Postgres) ListAlerts(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error) {
	where := " WHERE TRUE"
	args := []any{}
	if filter != nil {
		if filter.Severity != "" {
			args = append(args, filter.Severity.String())
			where += " AND severity = $1"
		}
		if filter.Status != "" {
			args = append(args, filter.Status.String())
			if len(args) == 1 {
				where += " AND status = $1"
			} else {
				where += " AND status = $2"
			}
		}
	}

	var total int
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM alerts"+where, args...).Scan(&total); err != nil {
		return nil, goerr.Wrap(err, "failed to count alerts")
	}

	offset, limit := 0, total
	if filter != nil {
		offset = filter.Offset
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	query := "SELECT id, title, channel, severity, status, risk_score, created_at FROM alerts" +
		where + " ORDER BY created_at DESC OFFSET " + placeholder(len(args)+1) +
		" LIMIT " + placeholder(len(args)+2)
	args = append(args, offset, limit)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query alerts")
	}
	defer rows.Close()

	items := []*model.Alert{}
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan alert row")
		}
		items = append(items, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate alert rows")
	}

	return &model.AlertList{
		Items:  items,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, nil
}

// ListAllAlerts returns every stored alert, oldest first
func (p *Postgres) ListAllAlerts(ctx context.Context) ([]*model.Alert, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, channel, severity, status, risk_score, created_at
		FROM alerts ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query alerts")
	}
	defer rows.Close()

	var alerts []*model.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan alert row")
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate alert rows")
	}

	return alerts, nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// placeholder returns the positional parameter for the given index
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
