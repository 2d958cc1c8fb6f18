package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// AppStore implements store.AppStore using PostgreSQL.
type AppStore struct {
	db Querier
}

// NewAppStore creates a new PostgreSQL-backed app store.
// The Querier may be a pool or an open transaction.
func NewAppStore(db Querier) *AppStore {
	return &AppStore{
		db: db,
	}
}

// Create creates a new app in the database.
func (s *AppStore) Create(ctx context.Context, app *models.App) error {
	query := `
		INSERT INTO apps (
			app_id, org_id, name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.db.Exec(ctx, query,
		app.AppID,
		app.OrgID,
		app.Name,
		app.CreatedAt,
		app.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAppAlreadyExists
		}
		return fmt.Errorf("failed to create app: %w", mapForeignKeyError(err))
	}

	log.Debug().
		Str("app_id", app.AppID.String()).
		Str("org_id", app.OrgID.String()).
		Msg("Created app")

	return nil
}

// Get retrieves an app by ID.
func (s *AppStore) Get(ctx context.Context, appID uuid.UUID) (*models.App, error) {
	query := `
		SELECT app_id, org_id, name, created_at, updated_at
		FROM apps
		WHERE app_id = $1
	`

	var app models.App
	err := s.db.QueryRow(ctx, query, appID).Scan(
		&app.AppID,
		&app.OrgID,
		&app.Name,
		&app.CreatedAt,
		&app.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	return &app, nil
}

// ListByOrganization returns all apps owned by an organization,
// ordered by ascending app ID.
func (s *AppStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.App, error) {
	query := `
		SELECT app_id, org_id, name, created_at, updated_at
		FROM apps
		WHERE org_id = $1
		ORDER BY app_id ASC
	`

	rows, err := s.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	defer rows.Close()

	return scanApps(rows)
}

// List returns every app in the database, ordered by ascending app ID.
func (s *AppStore) List(ctx context.Context) ([]*models.App, error) {
	query := `
		SELECT app_id, org_id, name, created_at, updated_at
		FROM apps
		ORDER BY app_id ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	defer rows.Close()

	return scanApps(rows)
}

func scanApps(rows pgx.Rows) ([]*models.App, error) {
	var apps []*models.App
	for rows.Next() {
		var app models.App
		err := rows.Scan(
			&app.AppID,
			&app.OrgID,
			&app.Name,
			&app.CreatedAt,
			&app.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		apps = append(apps, &app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating apps: %w", err)
	}

	return apps, nil
}
