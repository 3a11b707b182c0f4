// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// DefaultPersistThreshold is the approximate serialized size, in
	// bytes, above which a payload is persisted to disk regardless of
	// category.
	DefaultPersistThreshold = 10000

	// DefaultSweepInterval between background eviction passes.
	DefaultSweepInterval = 300 * time.Second
)

// defaultPersistCategories always go to the disk tier; they are large or
// slow-changing enough that re-fetching across process restarts hurts.
var defaultPersistCategories = []string{
	"financial_statements",
	"kline_daily",
	"kline_weekly",
}

// Options configure a Store at construction and are immutable afterward.
// The zero value is usable.
type Options struct {
	// TTL overrides or extends the default per-category policy table.
	TTL map[string]Policy

	// PersistCategories replaces the default disk-persistence allowlist.
	PersistCategories []string

	// PersistThreshold is the payload size above which entries are
	// persisted even when their category is not allowlisted. Values <= 0
	// select DefaultPersistThreshold.
	PersistThreshold int

	// SweepInterval between background eviction passes. Values <= 0
	// select DefaultSweepInterval.
	SweepInterval time.Duration

	// NoSweeper disables the background sweeper. Short-lived CLI
	// invocations sweep explicitly instead of paying for a goroutine.
	NoSweeper bool
}

// Store is the two-tier cache. One mutex guards both tiers so cross-tier
// operations, promotion included, are atomic. Disk blob writes happen
// under the same lock: the index must never reference a non-durable blob.
type Store struct {
	mu        sync.Mutex
	dir       string
	ttl       *Table
	mem       *memoryTier
	disk      *diskTier
	persist   map[string]bool
	threshold int

	// now is swapped out by tests to simulate the clock.
	now func() time.Time

	sweepEvery time.Duration
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a Store rooted at dir and starts its background sweeper.
// Failure to create the root directory is the only fatal condition; every
// later disk problem degrades to memory-only behavior.
func New(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	table := DefaultTable()
	for category, p := range opts.TTL {
		table.Set(category, p)
	}

	categories := opts.PersistCategories
	if categories == nil {
		categories = defaultPersistCategories
	}
	persist := make(map[string]bool, len(categories))
	for _, c := range categories {
		persist[c] = true
	}

	threshold := opts.PersistThreshold
	if threshold <= 0 {
		threshold = DefaultPersistThreshold
	}

	interval := opts.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	s := &Store{
		dir:        dir,
		ttl:        table,
		mem:        newMemoryTier(),
		disk:       newDiskTier(dir),
		persist:    persist,
		threshold:  threshold,
		now:        time.Now,
		sweepEvery: interval,
	}

	if !opts.NoSweeper {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.sweepLoop()
	}

	log.Debugf("cache store initialized: %s", dir)
	return s, nil
}

// TTL exposes the policy table, primarily so the fetch layer can apply
// scoped overrides.
func (s *Store) TTL() *Table {
	return s.ttl
}

// Get returns the cached payload for (category, identifier, params), or
// ok=false on a miss. Memory is consulted first; a disk hit is promoted
// into the memory tier under the same lock so subsequent reads skip disk.
func (s *Store) Get(category, identifier string, params map[string]string) ([]byte, bool) {
	key := Key(category, identifier, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	if e, ok := s.mem.get(key, now); ok {
		log.Debugf("memory cache hit: %s", key)
		return e.Payload, true
	}

	payload, info, ok := s.disk.get(key, now)
	if !ok {
		return nil, false
	}

	s.mem.set(key, &Entry{
		Payload:    payload,
		CreatedAt:  now,
		ExpiresAt:  info.ExpiresAt,
		Source:     SourceDisk,
		Meta:       info.Meta,
		LastAccess: now,
	})

	log.Debugf("disk cache hit: %s", key)
	return payload, true
}

// Set stores payload under (category, identifier, params), always in the
// memory tier and conditionally on disk. The TTL comes from the policy
// table. Disk trouble is logged and degrades that call to memory-only.
func (s *Store) Set(category, identifier string, payload []byte, params, meta map[string]string) {
	key := Key(category, identifier, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	expires := now.Add(s.ttl.TTL(category))

	s.mem.set(key, &Entry{
		Payload:    payload,
		CreatedAt:  now,
		ExpiresAt:  expires,
		Source:     SourceFetched,
		Meta:       meta,
		LastAccess: now,
	})

	if s.persist[category] || len(payload) > s.threshold {
		info := indexEntry{
			ExpiresAt:  expires,
			Category:   category,
			Identifier: identifier,
			Meta:       meta,
		}
		if err := s.disk.set(key, payload, info); err != nil {
			log.WithError(err).Warnf("cache degraded to memory only: %s", key)
		}
	}

	log.Debugf("cache set: %s expires %s", key, expires.Format(time.RFC3339))
}

// Delete removes the entry from both tiers. Deleting an absent key is a
// no-op.
func (s *Store) Delete(category, identifier string, params map[string]string) {
	key := Key(category, identifier, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.delete(key)
	s.disk.delete(key)
}

// Clear empties both tiers, blobs included.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.clear()
	s.disk.clear()
	log.Info("all cache cleared")
}

// Stats describes the cache at a point in time. MemoryBytes is the rough
// sum of payload sizes, not a real heap measurement.
type Stats struct {
	Dir            string `json:"dir"`
	MemoryEntries  int    `json:"memory_entries"`
	DiskEntries    int    `json:"disk_entries"`
	TotalEntries   int    `json:"total_entries"`
	MemoryBytes    int64  `json:"memory_bytes"`
	ExpiredEntries int    `json:"expired_memory_entries"`
}

// Stats reports current entry counts and approximate sizes.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	st := Stats{
		Dir:           s.dir,
		MemoryEntries: s.mem.len(),
		DiskEntries:   s.disk.len(),
	}
	st.TotalEntries = st.MemoryEntries + st.DiskEntries

	for _, e := range s.mem.entries {
		st.MemoryBytes += int64(len(e.Payload))
		if e.expired(now) {
			st.ExpiredEntries++
		}
	}

	return st
}
