package models

import (
	"time"

	"github.com/google/uuid"
)

// Version is an immutable snapshot of an app's definition at a point in time.
// CurrentEnvironmentID is the column introduced by the schema change this
// repo backfills; it is nil for rows created before the migration ran.
type Version struct {
	VersionID uuid.UUID // UUIDv7
	AppID     uuid.UUID // UUIDv7, FK to apps
	Label     string
	// CurrentEnvironmentID references the environment this version is
	// currently considered to belong to. Nullable pre-backfill.
	CurrentEnvironmentID *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
