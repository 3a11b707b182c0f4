// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stockctlgo/internal/fetch"
	"github.com/staranto/stockctlgo/internal/meta"
	"github.com/staranto/stockctlgo/internal/output"
	"github.com/staranto/stockctlgo/internal/quote"
)

// periodSpec ties a --period value to its push2 code and cache category.
type periodSpec struct {
	klt      string
	category string
}

var periods = map[string]periodSpec{
	"daily":   {quote.PeriodDaily, "kline_daily"},
	"weekly":  {quote.PeriodWeekly, "kline_weekly"},
	"monthly": {quote.PeriodMonthly, "kline_monthly"},
}

// KqCommandAction is the action handler for the "kq" subcommand. It
// fetches kline bars for one stock code, memoized per period category so
// daily data expires faster than monthly.
func KqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	if cmd.Args().Len() != 1 {
		return errors.New("exactly one stock code is required")
	}
	code := cmd.Args().First()

	spec := periods[cmd.String("period")]
	count := cmd.Int("count")

	kline := fetch.Wrap(m.Store, fetch.Config{
		Category: spec.category,
		Op:       "kq.kline",
		IdentArg: "code",
		Refresh:  cmd.Bool("refresh"),
	}, func(ctx context.Context, args fetch.Args) ([]quote.Bar, error) {
		n, err := strconv.Atoi(args["count"])
		if err != nil {
			return nil, fmt.Errorf("invalid count %q: %w", args["count"], err)
		}
		return m.Client.Kline(ctx, args["code"], args["period"], n)
	})

	bars, err := kline(ctx, fetch.Args{
		"code":   code,
		"period": spec.klt,
		"count":  strconv.Itoa(count),
	})
	if err != nil {
		return fmt.Errorf("kq %s: %w", code, err)
	}

	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []string{
			b.Date,
			fmt.Sprintf("%.2f", b.Open),
			fmt.Sprintf("%.2f", b.Close),
			fmt.Sprintf("%.2f", b.High),
			fmt.Sprintf("%.2f", b.Low),
			strconv.FormatInt(b.Volume, 10),
			fmt.Sprintf("%+.2f%%", b.ChangePct),
		})
	}

	headers := []string{"Date", "Open", "Close", "High", "Low", "Volume", "Chg%"}
	return output.Spit(cmd, os.Stdout, bars, headers, rows)
}

// KqCommandBuilder constructs the cli.Command for "kq".
func KqCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	flags := append(NewGlobalFlags("kq"),
		&cli.StringFlag{
			Name:    "period",
			Aliases: []string{"p"},
			Usage:   "kline period (daily, weekly, monthly)",
			Value:   "daily",
			Validator: func(value string) error {
				return FlagValidators(value, PeriodValidator)
			},
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of bars to retrieve",
			Value:   100,
		},
	)

	return &cli.Command{
		Name:      "kq",
		Usage:     "kline query",
		UsageText: `stockctl kq CODE [options]`,
		Flags:     flags,
		Metadata:  map[string]any{"meta": m},
		Action:    KqCommandAction,
	}
}
