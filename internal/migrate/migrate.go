package migrate

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/envbackfill/internal/backfill"
	"github.com/wolfeidau/envbackfill/internal/store/postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Step is a single versioned migration. Schema steps are loaded from embedded
// SQL files; data steps are registered in code with Up/Down functions that
// run inside the step's transaction.
type Step struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx pgx.Tx) error
	// Down reverts the step. Nil marks the step as forward-only.
	Down func(ctx context.Context, tx pgx.Tx) error
}

// Status describes one step's applied state.
type Status struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies schema and data migrations in version order, tracking
// applied versions in the schema_migrations table. Each step runs in its own
// transaction: a failed step rolls back atomically and aborts the run.
type Migrator struct {
	pool *pgxpool.Pool
	cfg  backfill.Config
}

// New creates a migrator. The backfill config is threaded through to the
// current-environment data step.
func New(pool *pgxpool.Pool, cfg backfill.Config) *Migrator {
	return &Migrator{
		pool: pool,
		cfg:  cfg,
	}
}

// Up applies all pending migrations in order.
func (m *Migrator) Up(ctx context.Context) error {
	steps, err := m.steps()
	if err != nil {
		return err
	}

	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	log.Info().Int("count", len(steps)).Msg("Running database migrations")

	for _, step := range steps {
		if err := m.applyStep(ctx, step); err != nil {
			return fmt.Errorf("migration %d_%s failed: %w", step.Version, step.Name, err)
		}
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}

// Down reverts the most recently applied migration using its registered Down
// function. Schema steps are forward-only and cannot be reverted.
func (m *Migrator) Down(ctx context.Context) error {
	steps, err := m.steps()
	if err != nil {
		return err
	}

	if err := m.ensureVersionTable(ctx); err != nil {
		return err
	}

	var latest int
	err = m.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&latest)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	if latest == 0 {
		log.Info().Msg("No applied migrations to revert")
		return nil
	}

	var step *Step
	for i := range steps {
		if steps[i].Version == latest {
			step = &steps[i]
			break
		}
	}
	if step == nil {
		return fmt.Errorf("applied migration version %d has no registered step", latest)
	}
	if step.Down == nil {
		return fmt.Errorf("migration %d_%s is forward-only", step.Version, step.Name)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	log.Info().Int("version", step.Version).Str("name", step.Name).Msg("Reverting migration")

	if err := step.Down(ctx, tx); err != nil {
		return fmt.Errorf("migration %d_%s down failed: %w", step.Version, step.Name, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, step.Version); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit revert: %w", err)
	}

	log.Info().Int("version", step.Version).Str("name", step.Name).Msg("Migration reverted")
	return nil
}

// Status returns every known step with its applied state, in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	steps, err := m.steps()
	if err != nil {
		return nil, err
	}

	if err := m.ensureVersionTable(ctx); err != nil {
		return nil, err
	}

	applied := map[int]time.Time{}
	rows, err := m.pool.Query(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration record: %w", err)
		}
		applied[version] = appliedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration records: %w", err)
	}

	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		st := Status{
			Version: step.Version,
			Name:    step.Name,
		}
		if at, ok := applied[step.Version]; ok {
			st.Applied = true
			st.AppliedAt = at
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}

// steps loads the embedded SQL schema steps, appends the registered data
// steps, and sorts the result by version.
func (m *Migrator) steps() ([]Step, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var steps []Step
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// Extract version number from filename (e.g., "1_initial_schema.sql" -> 1)
		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) < 2 {
			log.Warn().Str("file", entry.Name()).Msg("Skipping migration file with invalid name format")
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			log.Warn().Str("file", entry.Name()).Err(err).Msg("Skipping migration file with invalid version number")
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		sql := string(content)
		steps = append(steps, Step{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			Up: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, sql)
				return err
			},
		})
	}

	steps = append(steps, m.backfillStep())

	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Version < steps[j].Version
	})

	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", steps[i].Version)
		}
	}

	return steps, nil
}

// backfillStep is the data migration that populates
// app_versions.current_environment_id from each tenant's default environment.
// The driver runs on stores bound to the step's transaction, so a failure
// anywhere discards every write of the backfill.
func (m *Migrator) backfillStep() Step {
	return Step{
		Version: 3,
		Name:    "backfill_current_environment_id",
		Up: func(ctx context.Context, tx pgx.Tx) error {
			driver, err := backfill.NewDriver(
				postgres.NewOrganizationStore(tx),
				postgres.NewEnvironmentStore(tx),
				postgres.NewAppStore(tx),
				postgres.NewVersionStore(tx),
				m.cfg,
			)
			if err != nil {
				return err
			}
			return driver.Run(ctx)
		},
		Down: func(ctx context.Context, tx pgx.Tx) error {
			// The prior schema held no environment reference, so there is
			// nothing to restore. Deliberate no-op.
			log.Info().Msg("Current environment backfill has no inverse, nothing to revert")
			return nil
		},
	}
}

// ensureVersionTable creates the tracking table if it doesn't exist yet.
func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// applyStep runs a single migration in its own transaction if it hasn't been
// applied yet.
func (m *Migrator) applyStep(ctx context.Context, step Step) error {
	var applied bool
	err := m.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM schema_migrations WHERE version = $1
		)
	`, step.Version).Scan(&applied)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if applied {
		log.Debug().Int("version", step.Version).Str("name", step.Name).Msg("Migration already applied, skipping")
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	log.Info().Int("version", step.Version).Str("name", step.Name).Msg("Applying migration")

	if err := step.Up(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO schema_migrations (version, name) VALUES ($1, $2)
	`, step.Version, step.Name); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	log.Info().Int("version", step.Version).Str("name", step.Name).Msg("Migration applied successfully")
	return nil
}
