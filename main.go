// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/staranto/stockctlgo/internal/command"
	mylog "github.com/staranto/stockctlgo/internal/log"
	"github.com/staranto/stockctlgo/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// One store for the whole process; commands receive it through meta.
	// A nil store means caching is disabled.
	store, err := command.NewStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	app, err := command.InitApp(ctx, args, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}
