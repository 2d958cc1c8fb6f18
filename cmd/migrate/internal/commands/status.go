package commands

import (
	"context"
	"fmt"
	"time"
)

// StatusCmd lists every migration step with its applied state.
type StatusCmd struct {
	connectFlags
}

func (c *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	m, pool, err := c.migrator(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}

	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = fmt.Sprintf("applied %s", st.AppliedAt.Format(time.RFC3339))
		}
		fmt.Printf("%3d  %-40s %s\n", st.Version, st.Name, state)
	}

	return nil
}
