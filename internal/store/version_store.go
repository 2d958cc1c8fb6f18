package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
)

// Sentinel errors for version store operations
var (
	ErrVersionNotFound      = errors.New("version not found")
	ErrVersionAlreadyExists = errors.New("version already exists")
)

// VersionStore defines the interface for app version storage operations.
// Versions are immutable snapshots; the only mutation the store supports is
// pointing a version at an environment.
type VersionStore interface {
	// Create creates a new version in the store.
	// Returns ErrVersionAlreadyExists if a version with the same ID already exists.
	Create(ctx context.Context, version *models.Version) error

	// Get retrieves a version by ID.
	// Returns ErrVersionNotFound if the version doesn't exist.
	Get(ctx context.Context, versionID uuid.UUID) (*models.Version, error)

	// ListByApp returns all versions belonging to an app,
	// ordered by ascending version ID.
	ListByApp(ctx context.Context, appID uuid.UUID) ([]*models.Version, error)

	// SetCurrentEnvironment sets the version's current environment reference.
	// Returns ErrVersionNotFound if the version doesn't exist.
	SetCurrentEnvironment(ctx context.Context, versionID uuid.UUID, environmentID uuid.UUID) error
}
