package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations represent tenants in the system, with each org owning its
// environments and apps.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	// Returns ErrOrganizationAlreadyExists if an organization with the same ID already exists.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// List returns all organizations ordered by ascending org ID.
	// The ordering makes multi-tenant passes over the store reproducible.
	List(ctx context.Context) ([]*models.Organization, error)
}
