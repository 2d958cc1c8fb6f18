package backfill

import (
	"bytes"
	"errors"

	"github.com/wolfeidau/envbackfill/internal/models"
)

// ErrNoDefaultEnvironment is returned when an organization has no environment
// flagged as default. The backfill raises it before any write for that
// organization is attempted.
var ErrNoDefaultEnvironment = errors.New("no default environment")

// DefaultEnvironment selects the default-flagged environment from an
// organization's already-loaded environment set. It performs no store access.
//
// If more than one environment is flagged as default, the one with the lowest
// environment ID wins. IDs are UUIDv7, so this picks the oldest default,
// which keeps resolution deterministic across runs.
func DefaultEnvironment(envs []*models.Environment) (*models.Environment, error) {
	var selected *models.Environment
	for _, env := range envs {
		if !env.IsDefault {
			continue
		}
		if selected == nil || bytes.Compare(env.EnvironmentID[:], selected.EnvironmentID[:]) < 0 {
			selected = env
		}
	}

	if selected == nil {
		return nil, ErrNoDefaultEnvironment
	}

	return selected, nil
}
