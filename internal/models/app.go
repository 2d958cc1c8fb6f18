package models

import (
	"time"

	"github.com/google/uuid"
)

// App represents a logical application belonging to an organization,
// comprising one or more versions.
type App struct {
	AppID     uuid.UUID // UUIDv7
	OrgID     uuid.UUID // UUIDv7, FK to organizations
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
