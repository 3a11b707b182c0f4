// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stockctlgo/internal/cache"
	"github.com/staranto/stockctlgo/internal/config"
	"github.com/staranto/stockctlgo/internal/meta"
	"github.com/staranto/stockctlgo/internal/quote"
)

func InitApp(ctx context.Context, args []string, store *cache.Store) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the stockctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	m := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Store:   store,
		Client:  quote.NewClient(),
	}

	app := &cli.Command{
		Name:  "stockctl",
		Usage: "A-share market data queries with a two-tier cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "stockctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		CqCommandBuilder(app, m),
		FqCommandBuilder(app, m),
		KqCommandBuilder(app, m),
		QqCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
