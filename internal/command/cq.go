// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stockctlgo/internal/meta"
	"github.com/staranto/stockctlgo/internal/output"
)

// CqCommandAction is the action handler for the "cq" subcommand. Without
// flags it reports cache statistics; --sweep runs one eviction pass and
// --clear empties both tiers.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if m.Store == nil {
		return errors.New("caching is disabled (STOCKCTL_CACHE=0)")
	}

	if cmd.Bool("clear") {
		m.Store.Clear()
		fmt.Println("cache cleared")
		return nil
	}

	if cmd.Bool("sweep") {
		n := m.Store.Sweep()
		fmt.Printf("swept %d expired entries\n", n)
		return nil
	}

	st := m.Store.Stats()
	rows := [][]string{
		{"Cache dir", st.Dir},
		{"Memory entries", humanize.Comma(int64(st.MemoryEntries))},
		{"Disk entries", humanize.Comma(int64(st.DiskEntries))},
		{"Total entries", humanize.Comma(int64(st.TotalEntries))},
		{"Memory size", humanize.Bytes(uint64(st.MemoryBytes))},
		{"Expired in memory", strconv.Itoa(st.ExpiredEntries)},
	}

	headers := []string{"Stat", "Value"}
	return output.Spit(cmd, os.Stdout, st, headers, rows)
}

// CqCommandBuilder constructs the cli.Command for "cq".
func CqCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	flags := append(NewGlobalFlags("cq"),
		&cli.BoolFlag{
			Name:        "clear",
			Usage:       "remove every entry from both tiers",
			HideDefault: true,
		},
		&cli.BoolFlag{
			Name:        "sweep",
			Usage:       "run one eviction pass and report the count",
			HideDefault: true,
		},
	)

	return &cli.Command{
		Name:      "cq",
		Usage:     "cache query and maintenance",
		UsageText: `stockctl cq [options]`,
		Flags:     flags,
		Metadata:  map[string]any{"meta": m},
		Action:    CqCommandAction,
	}
}
