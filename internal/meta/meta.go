// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries per-invocation state from startup into the command
// handlers: the raw args, the loaded config, and the shared cache store
// and quote client built once in main.
package meta

import (
	"context"

	"github.com/staranto/stockctlgo/internal/cache"
	"github.com/staranto/stockctlgo/internal/config"
	"github.com/staranto/stockctlgo/internal/quote"
)

type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	Store   *cache.Store
	Client  *quote.Client
}
