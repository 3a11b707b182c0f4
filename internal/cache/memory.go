// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "time"

// memoryTier is the in-process key→entry map. It carries no lock of its
// own; the Store's mutex guards both tiers so cross-tier operations
// (promotion in particular) stay atomic.
type memoryTier struct {
	entries map[string]*Entry
}

func newMemoryTier() *memoryTier {
	return &memoryTier{entries: map[string]*Entry{}}
}

// get returns the live entry for key, touching it. An expired entry is
// evicted on the spot and reported as a miss.
func (m *memoryTier) get(key string, now time.Time) (*Entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(now) {
		delete(m.entries, key)
		return nil, false
	}
	e.touch(now)
	return e, true
}

// set overwrites unconditionally.
func (m *memoryTier) set(key string, e *Entry) {
	m.entries[key] = e
}

func (m *memoryTier) delete(key string) {
	delete(m.entries, key)
}

func (m *memoryTier) clear() {
	m.entries = map[string]*Entry{}
}

// sweep removes every expired entry and returns how many went.
func (m *memoryTier) sweep(now time.Time) int {
	removed := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *memoryTier) len() int {
	return len(m.entries)
}
