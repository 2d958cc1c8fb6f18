package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// VersionStore implements store.VersionStore using PostgreSQL.
type VersionStore struct {
	db Querier
}

// NewVersionStore creates a new PostgreSQL-backed version store.
// The Querier may be a pool or an open transaction.
func NewVersionStore(db Querier) *VersionStore {
	return &VersionStore{
		db: db,
	}
}

// Create creates a new version in the database.
func (s *VersionStore) Create(ctx context.Context, version *models.Version) error {
	query := `
		INSERT INTO app_versions (
			version_id, app_id, label, current_environment_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.Exec(ctx, query,
		version.VersionID,
		version.AppID,
		version.Label,
		version.CurrentEnvironmentID,
		version.CreatedAt,
		version.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrVersionAlreadyExists
		}
		return fmt.Errorf("failed to create version: %w", mapForeignKeyError(err))
	}

	log.Debug().
		Str("version_id", version.VersionID.String()).
		Str("app_id", version.AppID.String()).
		Msg("Created version")

	return nil
}

// Get retrieves a version by ID.
func (s *VersionStore) Get(ctx context.Context, versionID uuid.UUID) (*models.Version, error) {
	query := `
		SELECT version_id, app_id, label, current_environment_id, created_at, updated_at
		FROM app_versions
		WHERE version_id = $1
	`

	var version models.Version
	err := s.db.QueryRow(ctx, query, versionID).Scan(
		&version.VersionID,
		&version.AppID,
		&version.Label,
		&version.CurrentEnvironmentID,
		&version.CreatedAt,
		&version.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	return &version, nil
}

// ListByApp returns all versions belonging to an app,
// ordered by ascending version ID.
func (s *VersionStore) ListByApp(ctx context.Context, appID uuid.UUID) ([]*models.Version, error) {
	query := `
		SELECT version_id, app_id, label, current_environment_id, created_at, updated_at
		FROM app_versions
		WHERE app_id = $1
		ORDER BY version_id ASC
	`

	rows, err := s.db.Query(ctx, query, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		var version models.Version
		err := rows.Scan(
			&version.VersionID,
			&version.AppID,
			&version.Label,
			&version.CurrentEnvironmentID,
			&version.CreatedAt,
			&version.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, &version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}

	return versions, nil
}

// SetCurrentEnvironment sets the version's current environment reference.
func (s *VersionStore) SetCurrentEnvironment(ctx context.Context, versionID uuid.UUID, environmentID uuid.UUID) error {
	query := `
		UPDATE app_versions SET
			current_environment_id = $2,
			updated_at = $3
		WHERE version_id = $1
	`

	result, err := s.db.Exec(ctx, query, versionID, environmentID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set current environment: %w", mapForeignKeyError(err))
	}

	if result.RowsAffected() == 0 {
		return store.ErrVersionNotFound
	}

	log.Debug().
		Str("version_id", versionID.String()).
		Str("environment_id", environmentID.String()).
		Msg("Updated version current environment")

	return nil
}
