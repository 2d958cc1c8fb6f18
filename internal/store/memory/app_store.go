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

// AppStore implements store.AppStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type AppStore struct {
	mu sync.RWMutex

	apps map[uuid.UUID]*models.App // app_id -> App
}

// NewAppStore creates a new in-memory app store.
func NewAppStore() *AppStore {
	return &AppStore{
		apps: make(map[uuid.UUID]*models.App),
	}
}

// Create creates a new app in memory.
func (s *AppStore) Create(ctx context.Context, app *models.App) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.apps[app.AppID]; exists {
		return store.ErrAppAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *app
	s.apps[app.AppID] = &clone

	return nil
}

// Get retrieves an app by ID.
func (s *AppStore) Get(ctx context.Context, appID uuid.UUID) (*models.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, exists := s.apps[appID]
	if !exists {
		return nil, store.ErrAppNotFound
	}

	clone := *app
	return &clone, nil
}

// ListByOrganization returns all apps owned by an organization,
// ordered by ascending app ID.
func (s *AppStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.App
	for _, app := range s.apps {
		if app.OrgID == orgID {
			clone := *app
			result = append(result, &clone)
		}
	}

	sortApps(result)

	return result, nil
}

// List returns every app in the store, ordered by ascending app ID.
func (s *AppStore) List(ctx context.Context) ([]*models.App, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.App, 0, len(s.apps))
	for _, app := range s.apps {
		clone := *app
		result = append(result, &clone)
	}

	sortApps(result)

	return result, nil
}

func sortApps(apps []*models.App) {
	slices.SortFunc(apps, func(a, b *models.App) int {
		return bytes.Compare(a.AppID[:], b.AppID[:])
	})
}
