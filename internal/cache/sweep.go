// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"time"

	"github.com/apex/log"
)

// Sweep runs one eviction pass over both tiers, holding the shared lock,
// and returns the number of entries removed. The disk index is rewritten
// only when disk rows were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	return s.mem.sweep(now) + s.disk.sweep(now)
}

// sweepLoop is the background eviction task. It is started once at
// construction and runs until Close.
func (s *Store) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Infof("swept %d expired cache entries", n)
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the background sweeper and waits for it to exit. Safe to
// call more than once; a Store built with NoSweeper closes trivially.
func (s *Store) Close() {
	if s.stop == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}
