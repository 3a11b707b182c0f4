// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stockctlgo/internal/fetch"
	"github.com/staranto/stockctlgo/internal/meta"
	"github.com/staranto/stockctlgo/internal/output"
	"github.com/staranto/stockctlgo/internal/quote"
)

// FqCommandAction is the action handler for the "fq" subcommand. It
// fetches the intraday fund-flow breakdown for one stock code.
func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	if cmd.Args().Len() != 1 {
		return errors.New("exactly one stock code is required")
	}
	code := cmd.Args().First()

	flow := fetch.Wrap(m.Store, fetch.Config{
		Category: "fund_flow",
		Op:       "fq.flow",
		IdentArg: "code",
		Refresh:  cmd.Bool("refresh"),
	}, func(ctx context.Context, args fetch.Args) (quote.FundFlow, error) {
		return m.Client.Flow(ctx, args["code"])
	})

	ff, err := flow(ctx, fetch.Args{"code": code})
	if err != nil {
		return fmt.Errorf("fq %s: %w", code, err)
	}

	wan := func(v float64) string { return fmt.Sprintf("%+.0f万", v) }
	rows := [][]string{
		{"Main net inflow", wan(ff.MainInflow), fmt.Sprintf("%+.2f%%", ff.MainInflowPct)},
		{"Extra-large orders", wan(ff.XLInflow), fmt.Sprintf("%+.2f%%", ff.XLInflowPct)},
		{"Large orders", wan(ff.LargeInflow), ""},
		{"Medium orders", wan(ff.MediumInflow), ""},
		{"Small orders", wan(ff.SmallInflow), ""},
	}

	headers := []string{"Bucket", "Net", "Share"}
	return output.Spit(cmd, os.Stdout, ff, headers, rows)
}

// FqCommandBuilder constructs the cli.Command for "fq".
func FqCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "fq",
		Usage:     "fund flow query",
		UsageText: `stockctl fq CODE [options]`,
		Flags:     NewGlobalFlags("fq"),
		Metadata:  map[string]any{"meta": m},
		Action:    FqCommandAction,
	}
}
