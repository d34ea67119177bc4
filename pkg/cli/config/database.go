package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Database holds the repository backend configuration. Postgres takes
// precedence when both backends are configured.
type Database struct {
	PostgresDSN         string
	FirestoreProjectID  string
	FirestoreDatabaseID string
}

// Flags returns CLI flags for Database configuration
func (d *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string",
			Category:    "Database",
			Sources:     cli.EnvVars("UMBRELLA_POSTGRES_DSN"),
			Destination: &d.PostgresDSN,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Database",
			Sources:     cli.EnvVars("UMBRELLA_FIRESTORE_PROJECT"),
			Destination: &d.FirestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Database",
			Value:       "(default)",
			Sources:     cli.EnvVars("UMBRELLA_FIRESTORE_DATABASE"),
			Destination: &d.FirestoreDatabaseID,
		},
	}
}

// Configure creates the repository for the configured backend, falling
// back to the in-memory store
func (d *Database) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	if d.PostgresDSN != "" {
		repo, err := repository.NewPostgres(ctx, d.PostgresDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init postgres repository")
		}
		return repo, nil
	}

	if d.FirestoreProjectID != "" {
		repo, err := repository.NewFirestore(ctx, d.FirestoreProjectID, d.FirestoreDatabaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore repository",
				goerr.V("project", d.FirestoreProjectID),
				goerr.V("database", d.FirestoreDatabaseID),
			)
		}
		return repo, nil
	}

	logger.Warn("Using memory database. The data will be removed when shutting down")
	return repository.NewMemory(), nil
}

// LogValue returns structured log value
func (d Database) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("postgres", d.PostgresDSN != ""),
		slog.String("firestoreProject", d.FirestoreProjectID),
		slog.String("firestoreDatabase", d.FirestoreDatabaseID),
	)
}
