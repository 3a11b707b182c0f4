// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stockctlgo/internal/cache"
	"github.com/staranto/stockctlgo/internal/config"
	"github.com/staranto/stockctlgo/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If
// missing or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// CacheEnabled returns true unless STOCKCTL_CACHE explicitly disables it
// ("0"/"false").
func CacheEnabled() bool {
	enabled, _ := os.LookupEnv("STOCKCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// CacheDir resolves the cache root.
// Precedence:
//  1. STOCKCTL_CACHE_DIR, if set and non-empty
//  2. cache.dir from the config file
//  3. os.UserCacheDir()/stockctl
func CacheDir() (string, error) {
	if d, ok := os.LookupEnv("STOCKCTL_CACHE_DIR"); ok && d != "" {
		return d, nil
	}
	if d, err := config.GetString("cache.dir"); err == nil && d != "" {
		return d, nil
	}
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return "", fmt.Errorf("cannot resolve a cache directory: %w", err)
	}
	return filepath.Join(base, "stockctl"), nil
}

// NewStore builds the process-wide cache store from config and env. It
// returns (nil, nil) when caching is disabled; the fetch layer treats a
// nil store as a straight pass-through.
func NewStore() (*cache.Store, error) {
	if !CacheEnabled() {
		return nil, nil
	}

	dir, err := CacheDir()
	if err != nil {
		return nil, err
	}

	opts := cache.Options{}

	if threshold, err := config.GetInt("cache.threshold", 0); err == nil && threshold > 0 {
		opts.PersistThreshold = threshold
	}
	if sweep, err := config.GetInt("cache.sweep", 0); err == nil && sweep > 0 {
		opts.SweepInterval = time.Duration(sweep) * time.Second
	}
	if persist, err := config.GetStringSlice("cache.persist"); err == nil && len(persist) > 0 {
		opts.PersistCategories = persist
	}
	if ttls, err := config.GetIntMap("cache.ttl"); err == nil {
		opts.TTL = make(map[string]cache.Policy, len(ttls))
		for category, seconds := range ttls {
			opts.TTL[category] = cache.Policy{TTL: seconds, Unit: "seconds"}
		}
	}

	return cache.New(dir, opts)
}
