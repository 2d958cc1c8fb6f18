package models

import (
	"time"

	"github.com/google/uuid"
)

// Environment represents a deployment context (e.g. production) within an
// organization. Each organization is expected to have exactly one environment
// with IsDefault set; the backfill treats that one as authoritative.
type Environment struct {
	EnvironmentID uuid.UUID // UUIDv7
	OrgID         uuid.UUID // UUIDv7, FK to organizations
	Name          string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
