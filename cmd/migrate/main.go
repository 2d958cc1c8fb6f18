package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/envbackfill/cmd/migrate/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Up      commands.UpCmd     `cmd:"" help:"Apply all pending migrations"`
		Down    commands.DownCmd   `cmd:"" help:"Revert the latest applied migration"`
		Status  commands.StatusCmd `cmd:"" help:"Show migration status"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
