// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "time"

// Provenance values recorded on entries.
const (
	SourceFetched = "fetched"
	SourceDisk    = "disk"
)

// Entry is one cached payload plus its bookkeeping. An entry belongs to
// exactly one tier; promotion copies it into the memory tier.
type Entry struct {
	Payload     []byte
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Source      string
	Meta        map[string]string
	AccessCount int
	LastAccess  time.Time
}

func (e *Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// touch records a read hit.
func (e *Entry) touch(now time.Time) {
	e.AccessCount++
	e.LastAccess = now
}
