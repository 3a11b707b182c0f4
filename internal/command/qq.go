// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/stockctlgo/internal/fetch"
	"github.com/staranto/stockctlgo/internal/meta"
	"github.com/staranto/stockctlgo/internal/output"
	"github.com/staranto/stockctlgo/internal/quote"
)

// QqCommandAction is the action handler for the "qq" subcommand. It
// fetches realtime quotes for one or more stock codes concurrently, each
// fetch memoized under the realtime_quote category.
func QqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	codes := cmd.Args().Slice()
	if len(codes) == 0 {
		return errors.New("at least one stock code is required")
	}

	realtime := fetch.Wrap(m.Store, fetch.Config{
		Category: "realtime_quote",
		Op:       "qq.realtime",
		IdentArg: "code",
		Refresh:  cmd.Bool("refresh"),
	}, func(ctx context.Context, args fetch.Args) (quote.Quote, error) {
		return m.Client.Realtime(ctx, args["code"])
	})

	results := make([]quote.Quote, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	for i, code := range codes {
		g.Go(func() error {
			q, err := realtime(gctx, fetch.Args{"code": code})
			if err != nil {
				return fmt.Errorf("qq %s: %w", code, err)
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, q := range results {
		rows = append(rows, []string{
			q.Code,
			q.Name,
			fmt.Sprintf("%.2f", q.Price),
			fmt.Sprintf("%+.2f%%", q.ChangePct),
			fmt.Sprintf("%.2f", q.High),
			fmt.Sprintf("%.2f", q.Low),
			fmt.Sprintf("%.0f", q.VolumeLots),
			fmt.Sprintf("%.2f", q.PERatio),
		})
	}

	headers := []string{"Code", "Name", "Price", "Chg%", "High", "Low", "Vol(lots)", "PE"}
	return output.Spit(cmd, os.Stdout, results, headers, rows)
}

// QqCommandBuilder constructs the cli.Command for "qq".
func QqCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "qq",
		Usage:     "realtime quote query",
		UsageText: `stockctl qq CODE [CODE...] [options]`,
		Flags:     NewGlobalFlags("qq"),
		Metadata:  map[string]any{"meta": m},
		Action:    QqCommandAction,
	}
}
