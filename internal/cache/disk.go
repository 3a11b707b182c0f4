// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

const indexFile = "index.json"

// indexEntry is one row of the disk index document. The index is
// authoritative for disk-tier membership; a row whose blob is missing is
// treated as absent and dropped by whichever access discovers it.
type indexEntry struct {
	ExpiresAt  time.Time         `json:"expires_at"`
	Category   string            `json:"category"`
	Identifier string            `json:"identifier"`
	Meta       map[string]string `json:"metadata,omitempty"`
}

// diskTier persists large or slow-changing payloads as one blob file per
// key plus a single JSON index document. Like memoryTier, it relies on the
// Store's mutex for all synchronization.
type diskTier struct {
	dir   string
	index map[string]indexEntry
}

func newDiskTier(dir string) *diskTier {
	d := &diskTier{dir: dir, index: map[string]indexEntry{}}
	d.loadIndex()
	return d
}

func (d *diskTier) loadIndex() {
	raw, err := os.ReadFile(filepath.Join(d.dir, indexFile))
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("failed to read cache index")
		}
		return
	}
	if err := json.Unmarshal(raw, &d.index); err != nil {
		// A corrupt index is not fatal; start over empty.
		log.WithError(err).Warn("corrupt cache index, starting empty")
		d.index = map[string]indexEntry{}
	}
}

// saveIndex rewrites the index document in full.
func (d *diskTier) saveIndex() {
	raw, err := json.MarshalIndent(d.index, "", "  ")
	if err != nil {
		log.WithError(err).Warn("failed to marshal cache index")
		return
	}
	if err := os.WriteFile(filepath.Join(d.dir, indexFile), raw, 0o644); err != nil { //nolint:mnd
		log.WithError(err).Warn("failed to save cache index")
	}
}

func (d *diskTier) blobPath(key string) string {
	return filepath.Join(d.dir, key+".dat")
}

// get returns the payload and index row for key if present and fresh.
// Expired rows and rows whose blob is gone or unreadable are dropped here,
// so the index repairs itself lazily without a consistency pass.
func (d *diskTier) get(key string, now time.Time) ([]byte, indexEntry, bool) {
	info, ok := d.index[key]
	if !ok {
		return nil, indexEntry{}, false
	}

	if now.After(info.ExpiresAt) {
		d.remove(key)
		d.saveIndex()
		return nil, indexEntry{}, false
	}

	payload, err := os.ReadFile(d.blobPath(key))
	if err != nil {
		log.WithError(err).Warnf("dropping index entry with unreadable blob: %s", key)
		delete(d.index, key)
		d.saveIndex()
		return nil, indexEntry{}, false
	}

	return payload, info, true
}

// set writes the blob first and only then the index row, so no reader can
// observe an index entry pointing at a not-yet-durable blob.
func (d *diskTier) set(key string, payload []byte, info indexEntry) error {
	if err := os.WriteFile(d.blobPath(key), payload, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cache blob: %w", err)
	}
	d.index[key] = info
	d.saveIndex()
	return nil
}

// remove deletes the blob and the index row without rewriting the index;
// callers batch the rewrite.
func (d *diskTier) remove(key string) {
	if _, ok := d.index[key]; !ok {
		return
	}
	if err := os.Remove(d.blobPath(key)); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warnf("failed to remove cache blob: %s", key)
	}
	delete(d.index, key)
}

func (d *diskTier) delete(key string) {
	if _, ok := d.index[key]; !ok {
		return
	}
	d.remove(key)
	d.saveIndex()
}

func (d *diskTier) clear() {
	for key := range d.index {
		d.remove(key)
	}
	d.saveIndex()
}

// sweep removes every expired row and its blob, rewriting the index only
// if anything was removed.
func (d *diskTier) sweep(now time.Time) int {
	removed := 0
	for key, info := range d.index {
		if now.After(info.ExpiresAt) {
			d.remove(key)
			removed++
		}
	}
	if removed > 0 {
		d.saveIndex()
	}
	return removed
}

func (d *diskTier) len() int {
	return len(d.index)
}
