package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
)

// Sentinel errors for environment store operations
var (
	ErrEnvironmentNotFound      = errors.New("environment not found")
	ErrEnvironmentAlreadyExists = errors.New("environment already exists")
)

// EnvironmentStore defines the interface for environment storage operations.
type EnvironmentStore interface {
	// Create creates a new environment in the store.
	// Returns ErrEnvironmentAlreadyExists if an environment with the same ID already exists.
	Create(ctx context.Context, env *models.Environment) error

	// Get retrieves an environment by ID.
	// Returns ErrEnvironmentNotFound if the environment doesn't exist.
	Get(ctx context.Context, environmentID uuid.UUID) (*models.Environment, error)

	// ListByOrganization returns all environments belonging to an organization,
	// ordered by ascending environment ID.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Environment, error)
}
