//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/envbackfill/internal/backfill"
	"github.com/wolfeidau/envbackfill/internal/migrate"
	"github.com/wolfeidau/envbackfill/internal/models"
	"github.com/wolfeidau/envbackfill/internal/store/postgres"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := postgres.NewPool(ctx, &postgres.PoolConfig{ConnString: connString})
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup
}

func seedVersion(t *testing.T, versions *postgres.VersionStore, id string, appID uuid.UUID, label string) uuid.UUID {
	t.Helper()
	versionID := uuid.MustParse(id)
	require.NoError(t, versions.Create(context.Background(), &models.Version{
		VersionID: versionID,
		AppID:     appID,
		Label:     label,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))
	return versionID
}

func TestIntegration_MigrateAndBackfill(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	migrator := migrate.New(pool, backfill.Config{Scope: backfill.ScopeOrganization})

	orgs := postgres.NewOrganizationStore(pool)
	envs := postgres.NewEnvironmentStore(pool)
	apps := postgres.NewAppStore(pool)
	versions := postgres.NewVersionStore(pool)

	o1 := uuid.MustParse("018f0000-0000-7000-8000-000000000001")
	o2 := uuid.MustParse("018f0000-0000-7000-8000-000000000002")
	e1 := uuid.MustParse("018f0000-0000-7000-8000-0000000000a1")
	e2 := uuid.MustParse("018f0000-0000-7000-8000-0000000000a2")
	e3 := uuid.MustParse("018f0000-0000-7000-8000-0000000000a3")
	a1 := uuid.MustParse("018f0000-0000-7000-8000-0000000000b1")

	t.Run("up on empty database applies all steps", func(t *testing.T) {
		require.NoError(t, migrator.Up(ctx))

		statuses, err := migrator.Status(ctx)
		require.NoError(t, err)
		require.Len(t, statuses, 3)
		for _, st := range statuses {
			require.True(t, st.Applied, "step %d %s should be applied", st.Version, st.Name)
		}
	})

	t.Run("seed tenants", func(t *testing.T) {
		now := time.Now()

		require.NoError(t, orgs.Create(ctx, &models.Organization{OrgID: o1, Name: "acme", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, orgs.Create(ctx, &models.Organization{OrgID: o2, Name: "globex", CreatedAt: now, UpdatedAt: now}))

		require.NoError(t, envs.Create(ctx, &models.Environment{EnvironmentID: e1, OrgID: o1, Name: "production", IsDefault: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, envs.Create(ctx, &models.Environment{EnvironmentID: e2, OrgID: o1, Name: "staging", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, envs.Create(ctx, &models.Environment{EnvironmentID: e3, OrgID: o2, Name: "production", IsDefault: true, CreatedAt: now, UpdatedAt: now}))

		require.NoError(t, apps.Create(ctx, &models.App{AppID: a1, OrgID: o1, Name: "storefront", CreatedAt: now, UpdatedAt: now}))
	})

	v1 := seedVersion(t, versions, "018f0000-0000-7000-8000-0000000000c1", a1, "v1")
	v2 := seedVersion(t, versions, "018f0000-0000-7000-8000-0000000000c2", a1, "v2")

	t.Run("down reverts the backfill step", func(t *testing.T) {
		require.NoError(t, migrator.Down(ctx))

		statuses, err := migrator.Status(ctx)
		require.NoError(t, err)
		require.False(t, statuses[2].Applied)
	})

	t.Run("up backfills seeded versions inside the step transaction", func(t *testing.T) {
		require.NoError(t, migrator.Up(ctx))

		got, err := versions.Get(ctx, v1)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentEnvironmentID)
		require.Equal(t, e1, *got.CurrentEnvironmentID)

		got, err = versions.Get(ctx, v2)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentEnvironmentID)
		require.Equal(t, e1, *got.CurrentEnvironmentID)
	})

	t.Run("up is idempotent", func(t *testing.T) {
		require.NoError(t, migrator.Up(ctx))

		got, err := versions.Get(ctx, v1)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentEnvironmentID)
		require.Equal(t, e1, *got.CurrentEnvironmentID)
	})

	t.Run("missing default rolls the whole step back", func(t *testing.T) {
		now := time.Now()

		// Tenant with no default environment.
		o3 := uuid.MustParse("018f0000-0000-7000-8000-000000000003")
		require.NoError(t, orgs.Create(ctx, &models.Organization{OrgID: o3, Name: "initech", CreatedAt: now, UpdatedAt: now}))

		require.NoError(t, migrator.Down(ctx))

		err := migrator.Up(ctx)
		require.ErrorIs(t, err, backfill.ErrNoDefaultEnvironment)

		// The failed step's transaction rolled back: prior values survive
		// and the step stays pending.
		got, err := versions.Get(ctx, v1)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentEnvironmentID)
		require.Equal(t, e1, *got.CurrentEnvironmentID)

		statuses, err := migrator.Status(ctx)
		require.NoError(t, err)
		require.False(t, statuses[2].Applied)

		// Flagging a default repairs the run.
		e4 := uuid.MustParse("018f0000-0000-7000-8000-0000000000a4")
		require.NoError(t, envs.Create(ctx, &models.Environment{EnvironmentID: e4, OrgID: o3, Name: "production", IsDefault: true, CreatedAt: now, UpdatedAt: now}))

		require.NoError(t, migrator.Up(ctx))
	})
}

func TestIntegration_StoreErrors(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	migrator := migrate.New(pool, backfill.Config{})
	require.NoError(t, migrator.Up(ctx))

	apps := postgres.NewAppStore(pool)
	versions := postgres.NewVersionStore(pool)

	t.Run("creating an app for a missing organization fails", func(t *testing.T) {
		err := apps.Create(ctx, &models.App{
			AppID:     uuid.MustParse("018f0000-0000-7000-8000-0000000000b9"),
			OrgID:     uuid.MustParse("018f0000-0000-7000-8000-0000000000f9"),
			Name:      "orphan",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.Error(t, err)
	})

	t.Run("setting environment on a missing version fails", func(t *testing.T) {
		err := versions.SetCurrentEnvironment(ctx,
			uuid.MustParse("018f0000-0000-7000-8000-0000000000c9"),
			uuid.MustParse("018f0000-0000-7000-8000-0000000000a9"))
		require.Error(t, err)
	})
}
