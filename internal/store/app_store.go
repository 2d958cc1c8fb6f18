package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
)

// Sentinel errors for app store operations
var (
	ErrAppNotFound      = errors.New("app not found")
	ErrAppAlreadyExists = errors.New("app already exists")
)

// AppStore defines the interface for app storage operations.
type AppStore interface {
	// Create creates a new app in the store.
	// Returns ErrAppAlreadyExists if an app with the same ID already exists.
	Create(ctx context.Context, app *models.App) error

	// Get retrieves an app by ID.
	// Returns ErrAppNotFound if the app doesn't exist.
	Get(ctx context.Context, appID uuid.UUID) (*models.App, error)

	// ListByOrganization returns all apps owned by an organization,
	// ordered by ascending app ID.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.App, error)

	// List returns every app in the store regardless of owner, ordered by
	// ascending app ID. Used only by the global backfill scope.
	List(ctx context.Context) ([]*models.App, error)
}
