package commands

import (
	"context"
)

// UpCmd applies all pending schema and data migrations.
type UpCmd struct {
	connectFlags
}

func (c *UpCmd) Run(ctx context.Context, globals *Globals) error {
	m, pool, err := c.migrator(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	return m.Up(ctx)
}
