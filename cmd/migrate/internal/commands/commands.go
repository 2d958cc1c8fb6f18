package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/envbackfill/internal/backfill"
	"github.com/wolfeidau/envbackfill/internal/logger"
	"github.com/wolfeidau/envbackfill/internal/migrate"
	"github.com/wolfeidau/envbackfill/internal/store/postgres"
	"gopkg.in/yaml.v3"
)

type Globals struct {
	Debug   bool
	Version string
}

// fileConfig is the YAML config file schema. Flags override the database
// connection string; the backfill scope in the file overrides the flag
// default.
type fileConfig struct {
	Database postgres.PoolConfig `yaml:"database"`
	Backfill backfill.Config     `yaml:"backfill"`
}

// connectFlags are shared by every command that needs a database connection.
type connectFlags struct {
	DSN    string `help:"PostgreSQL connection string" env:"DATABASE_URL"`
	Config string `help:"YAML config file path"`
	Scope  string `help:"Backfill scope" default:"organization" enum:"organization,global"`
}

// migrator builds a Migrator from flags and optional config file.
// The caller owns the returned pool.
func (f *connectFlags) migrator(ctx context.Context, globals *Globals) (*migrate.Migrator, *pgxpool.Pool, error) {
	log.Logger = logger.Setup(globals.Debug)

	var cfg fileConfig
	if f.Config != "" {
		data, err := os.ReadFile(f.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if f.DSN != "" {
		cfg.Database.ConnString = f.DSN
	}
	if cfg.Backfill.Scope == "" {
		cfg.Backfill.Scope = backfill.Scope(f.Scope)
	}
	if err := cfg.Backfill.Validate(); err != nil {
		return nil, nil, err
	}

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return migrate.New(pool, cfg.Backfill), pool, nil
}
