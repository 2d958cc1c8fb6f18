package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// EnvironmentStore implements store.EnvironmentStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type EnvironmentStore struct {
	mu sync.RWMutex

	environments map[uuid.UUID]*models.Environment // environment_id -> Environment
}

// NewEnvironmentStore creates a new in-memory environment store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{
		environments: make(map[uuid.UUID]*models.Environment),
	}
}

// Create creates a new environment in memory.
func (s *EnvironmentStore) Create(ctx context.Context, env *models.Environment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.environments[env.EnvironmentID]; exists {
		return store.ErrEnvironmentAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *env
	s.environments[env.EnvironmentID] = &clone

	return nil
}

// Get retrieves an environment by ID.
func (s *EnvironmentStore) Get(ctx context.Context, environmentID uuid.UUID) (*models.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env, exists := s.environments[environmentID]
	if !exists {
		return nil, store.ErrEnvironmentNotFound
	}

	clone := *env
	return &clone, nil
}

// ListByOrganization returns all environments belonging to an organization,
// ordered by ascending environment ID.
func (s *EnvironmentStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Environment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Environment
	for _, env := range s.environments {
		if env.OrgID == orgID {
			clone := *env
			result = append(result, &clone)
		}
	}

	slices.SortFunc(result, func(a, b *models.Environment) int {
		return bytes.Compare(a.EnvironmentID[:], b.EnvironmentID[:])
	})

	return result, nil
}
