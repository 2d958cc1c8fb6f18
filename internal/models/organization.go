package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system.
// Each organization owns its own environments and apps.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
