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

// EnvironmentStore implements store.EnvironmentStore using PostgreSQL.
type EnvironmentStore struct {
	db Querier
}

// NewEnvironmentStore creates a new PostgreSQL-backed environment store.
// The Querier may be a pool or an open transaction.
func NewEnvironmentStore(db Querier) *EnvironmentStore {
	return &EnvironmentStore{
		db: db,
	}
}

// Create creates a new environment in the database.
func (s *EnvironmentStore) Create(ctx context.Context, env *models.Environment) error {
	query := `
		INSERT INTO app_environments (
			environment_id, org_id, name, is_default, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.db.Exec(ctx, query,
		env.EnvironmentID,
		env.OrgID,
		env.Name,
		env.IsDefault,
		env.CreatedAt,
		env.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEnvironmentAlreadyExists
		}
		return fmt.Errorf("failed to create environment: %w", mapForeignKeyError(err))
	}

	log.Debug().
		Str("environment_id", env.EnvironmentID.String()).
		Str("org_id", env.OrgID.String()).
		Bool("is_default", env.IsDefault).
		Msg("Created environment")

	return nil
}

// Get retrieves an environment by ID.
func (s *EnvironmentStore) Get(ctx context.Context, environmentID uuid.UUID) (*models.Environment, error) {
	query := `
		SELECT environment_id, org_id, name, is_default, created_at, updated_at
		FROM app_environments
		WHERE environment_id = $1
	`

	var env models.Environment
	err := s.db.QueryRow(ctx, query, environmentID).Scan(
		&env.EnvironmentID,
		&env.OrgID,
		&env.Name,
		&env.IsDefault,
		&env.CreatedAt,
		&env.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEnvironmentNotFound
		}
		return nil, fmt.Errorf("failed to get environment: %w", err)
	}

	return &env, nil
}

// ListByOrganization returns all environments belonging to an organization,
// ordered by ascending environment ID.
func (s *EnvironmentStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Environment, error) {
	query := `
		SELECT environment_id, org_id, name, is_default, created_at, updated_at
		FROM app_environments
		WHERE org_id = $1
		ORDER BY environment_id ASC
	`

	rows, err := s.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	defer rows.Close()

	var envs []*models.Environment
	for rows.Next() {
		var env models.Environment
		err := rows.Scan(
			&env.EnvironmentID,
			&env.OrgID,
			&env.Name,
			&env.IsDefault,
			&env.CreatedAt,
			&env.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan environment: %w", err)
		}
		envs = append(envs, &env)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating environments: %w", err)
	}

	return envs, nil
}
