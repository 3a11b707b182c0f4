// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fetch provides the memoizing wrapper that puts the cache in
// front of a remote fetch operation. Cache trouble never changes the
// functional result of a call, only its latency.
package fetch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/stockctlgo/internal/cache"
)

// Args carries the named arguments of one fetch call.
type Args map[string]string

// Func is any fetch operation the cache can sit in front of. It returns a
// serializable value or an error; the cache is agnostic to the shape.
type Func[T any] func(ctx context.Context, args Args) (T, error)

// Config describes how one operation is memoized.
type Config struct {
	// Category selects the TTL policy and the disk-persistence rule.
	Category string

	// Op names the operation. It is folded into the key fingerprint so
	// two operations sharing category+identifier+params never collide.
	Op string

	// IdentArg names the argument holding the cache identifier. The
	// identifier is excluded from the parameter fingerprint.
	IdentArg string

	// Identifier, when set, overrides the default extraction
	// (args[IdentArg]). Returning "" bypasses the cache for that call.
	Identifier func(Args) string

	// TTL, when positive, overrides the category policy for stores made
	// by this wrapper. The table's permanent entry is restored after
	// every store.
	TTL time.Duration

	// Meta is attached to every entry this wrapper stores.
	Meta map[string]string

	// Refresh skips the cache read, forcing a fetch. The result is still
	// stored, so a refreshed entry replaces the stale one.
	Refresh bool
}

func (c Config) identifier(args Args) string {
	if c.Identifier != nil {
		return c.Identifier(args)
	}
	if c.IdentArg == "" {
		return ""
	}
	return args[c.IdentArg]
}

// fingerprint builds the cache params from everything except the
// identifier binding, plus the operation name.
func (c Config) fingerprint(args Args) map[string]string {
	params := make(map[string]string, len(args)+1)
	for k, v := range args {
		if k == c.IdentArg {
			continue
		}
		params[k] = v
	}
	params[cache.OpParam] = c.Op
	return params
}

// Wrap memoizes fn through store. When the identifier cannot be resolved,
// or store is nil (caching disabled), the call passes straight through to
// fn, every time, with the cache never consulted. Fetch errors propagate
// untouched and are never cached.
func Wrap[T any](store *cache.Store, cfg Config, fn Func[T]) Func[T] {
	if store == nil {
		return fn
	}
	return func(ctx context.Context, args Args) (T, error) {
		ident := cfg.identifier(args)
		if ident == "" {
			return fn(ctx, args)
		}

		params := cfg.fingerprint(args)

		if raw, ok := cacheRead(store, cfg, ident, params); ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				log.Debugf("cache hit for %s:%s", cfg.Category, ident)
				return v, nil
			}
			// An undecodable payload degrades to a miss.
			log.Warnf("discarding undecodable cache payload for %s:%s", cfg.Category, ident)
		}

		v, err := fn(ctx, args)
		if err != nil {
			return v, err
		}

		raw, err := json.Marshal(v)
		if err != nil {
			// Serialization failure costs the cache entry, not the call.
			log.WithError(err).Warnf("failed to serialize result for %s:%s", cfg.Category, ident)
			return v, nil
		}
		if emptyPayload(raw) {
			return v, nil
		}

		if cfg.TTL > 0 {
			restore := store.TTL().Swap(cfg.Category, cfg.TTL)
			defer restore()
		}
		store.Set(cfg.Category, ident, raw, params, cfg.Meta)
		log.Debugf("cached %s:%s", cfg.Category, ident)

		return v, nil
	}
}

func cacheRead(store *cache.Store, cfg Config, ident string, params map[string]string) ([]byte, bool) {
	if cfg.Refresh {
		return nil, false
	}
	return store.Get(cfg.Category, ident, params)
}

// emptyPayload reports whether raw encodes a null or empty value; those
// are not worth caching.
func emptyPayload(raw []byte) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", `""`, "[]", "{}":
		return true
	}
	return false
}
