package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// VersionStore implements store.VersionStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type VersionStore struct {
	mu sync.RWMutex

	versions map[uuid.UUID]*models.Version // version_id -> Version
}

// NewVersionStore creates a new in-memory version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		versions: make(map[uuid.UUID]*models.Version),
	}
}

// Create creates a new version in memory.
func (s *VersionStore) Create(ctx context.Context, version *models.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.versions[version.VersionID]; exists {
		return store.ErrVersionAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *version
	s.versions[version.VersionID] = &clone

	return nil
}

// Get retrieves a version by ID.
func (s *VersionStore) Get(ctx context.Context, versionID uuid.UUID) (*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, exists := s.versions[versionID]
	if !exists {
		return nil, store.ErrVersionNotFound
	}

	clone := *version
	return &clone, nil
}

// ListByApp returns all versions belonging to an app,
// ordered by ascending version ID.
func (s *VersionStore) ListByApp(ctx context.Context, appID uuid.UUID) ([]*models.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Version
	for _, version := range s.versions {
		if version.AppID == appID {
			clone := *version
			result = append(result, &clone)
		}
	}

	slices.SortFunc(result, func(a, b *models.Version) int {
		return bytes.Compare(a.VersionID[:], b.VersionID[:])
	})

	return result, nil
}

// SetCurrentEnvironment sets the version's current environment reference.
func (s *VersionStore) SetCurrentEnvironment(ctx context.Context, versionID uuid.UUID, environmentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, exists := s.versions[versionID]
	if !exists {
		return store.ErrVersionNotFound
	}

	envID := environmentID
	version.CurrentEnvironmentID = &envID
	version.UpdatedAt = time.Now()

	return nil
}
