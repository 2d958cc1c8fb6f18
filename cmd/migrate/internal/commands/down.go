package commands

import (
	"context"
)

// DownCmd reverts the latest applied migration. Schema steps are
// forward-only; the backfill step's revert is a deliberate no-op since the
// prior schema carried no environment reference to restore.
type DownCmd struct {
	connectFlags
}

func (c *DownCmd) Run(ctx context.Context, globals *Globals) error {
	m, pool, err := c.migrator(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	return m.Down(ctx)
}
