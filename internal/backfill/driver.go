package backfill

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store"
)

// Scope controls which apps a tenant's default environment is applied to.
type Scope string

const (
	// ScopeOrganization applies each organization's default environment to
	// that organization's own apps only. This is the corrected per-tenant
	// behavior and the default.
	ScopeOrganization Scope = "organization"

	// ScopeGlobal applies each organization's default environment to every
	// app in the system. With more than one organization the last one
	// processed wins, so this only makes sense for deployments that run a
	// single shared environment. Retained as a named choice rather than an
	// accident of traversal order.
	ScopeGlobal Scope = "global"
)

// Config holds backfill driver configuration.
type Config struct {
	// Scope selects per-organization or global app traversal.
	// Default: ScopeOrganization
	Scope Scope `yaml:"scope"`
}

// ApplyDefaults applies default values to unset configuration fields.
func (c *Config) ApplyDefaults() {
	if c.Scope == "" {
		c.Scope = ScopeOrganization
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Scope {
	case ScopeOrganization, ScopeGlobal:
		return nil
	default:
		return fmt.Errorf("unknown backfill scope: %q", c.Scope)
	}
}

// Driver populates app_versions.current_environment_id from each tenant's
// default environment. It is the orchestration core of the migration: the
// caller supplies stores bound to an open transaction and commits or rolls
// back as a unit once Run returns.
type Driver struct {
	organizations store.OrganizationStore
	environments  store.EnvironmentStore
	apps          store.AppStore
	versions      store.VersionStore
	cfg           Config
}

// NewDriver creates a backfill driver over the supplied stores.
func NewDriver(
	organizations store.OrganizationStore,
	environments store.EnvironmentStore,
	apps store.AppStore,
	versions store.VersionStore,
	cfg Config,
) (*Driver, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backfill config: %w", err)
	}

	return &Driver{
		organizations: organizations,
		environments:  environments,
		apps:          apps,
		versions:      versions,
		cfg:           cfg,
	}, nil
}

// Run executes the backfill. Organizations are processed in ascending ID
// order so the run's observable effects are reproducible. The first failure
// aborts the remaining work; there is no partial-success state, the enclosing
// transaction discards everything written so far.
//
// Re-running a completed backfill is a no-op change: each version is set to
// the same environment it already references.
func (d *Driver) Run(ctx context.Context) error {
	orgs, err := d.organizations.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load organizations: %w", err)
	}

	log.Info().
		Int("organizations", len(orgs)).
		Str("scope", string(d.cfg.Scope)).
		Msg("Starting current environment backfill")

	for _, org := range orgs {
		if err := d.backfillOrganization(ctx, org); err != nil {
			return fmt.Errorf("organization %s: %w", org.OrgID, err)
		}
	}

	return nil
}

// backfillOrganization runs one organization's pass. The resolved default is
// a local of this pass, never shared across iterations.
func (d *Driver) backfillOrganization(ctx context.Context, org *models.Organization) error {
	envs, err := d.environments.ListByOrganization(ctx, org.OrgID)
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	// Resolve before touching any version so a missing default aborts the
	// pass without partial writes.
	defaultEnv, err := DefaultEnvironment(envs)
	if err != nil {
		return err
	}

	apps, err := d.loadApps(ctx, org)
	if err != nil {
		return err
	}

	for _, app := range apps {
		versions, err := d.versions.ListByApp(ctx, app.AppID)
		if err != nil {
			return fmt.Errorf("failed to load versions for app %s: %w", app.AppID, err)
		}

		for _, version := range versions {
			// Each write is awaited before the next is issued; the enclosing
			// transaction commits only after Run returns.
			if err := d.versions.SetCurrentEnvironment(ctx, version.VersionID, defaultEnv.EnvironmentID); err != nil {
				return fmt.Errorf("failed to set environment on version %s: %w", version.VersionID, err)
			}

			log.Info().
				Str("version_id", version.VersionID.String()).
				Str("app_id", app.AppID.String()).
				Str("org_id", org.OrgID.String()).
				Str("environment_id", defaultEnv.EnvironmentID.String()).
				Msg("Backfilled version current environment")
		}
	}

	return nil
}

func (d *Driver) loadApps(ctx context.Context, org *models.Organization) ([]*models.App, error) {
	switch d.cfg.Scope {
	case ScopeGlobal:
		apps, err := d.apps.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load apps: %w", err)
		}
		return apps, nil
	default:
		apps, err := d.apps.ListByOrganization(ctx, org.OrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to load apps: %w", err)
		}
		return apps, nil
	}
}
