// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cache implements the two-tier (memory + local disk) TTL cache
// that sits between the remote quote APIs and their callers. Payloads are
// opaque blobs; the cache knows nothing about their shape. A background
// sweeper evicts expired entries from both tiers.
package cache
