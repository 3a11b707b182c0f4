// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore builds a sweeperless Store on a temp dir with a controllable
// clock. Advance the clock through the returned pointer.
func newTestStore(t *testing.T, opts Options) (*Store, *time.Time) {
	t.Helper()

	opts.NoSweeper = true
	s, err := New(t.TempDir(), opts)
	require.NoError(t, err)

	now := time.Now()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestNew_BadRoot(t *testing.T) {
	// A file where the root dir should go makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := New(filepath.Join(blocker, "cache"), Options{NoSweeper: true})
	assert.Error(t, err)
}

func TestStore_SetGet(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	s.Set("realtime_quote", "600519", []byte(`{"price":1800.5}`), nil, nil)

	got, ok := s.Get("realtime_quote", "600519", nil)
	assert.True(t, ok)
	assert.Equal(t, `{"price":1800.5}`, string(got))

	_, ok = s.Get("realtime_quote", "000001", nil)
	assert.False(t, ok)
}

func TestStore_TTLRespected(t *testing.T) {
	s, now := newTestStore(t, Options{TTL: map[string]Policy{"quick": {TTL: 5, Unit: "seconds"}}})

	s.Set("quick", "600519", []byte("v"), nil, nil)

	*now = now.Add(4 * time.Second)
	got, ok := s.Get("quick", "600519", nil)
	assert.True(t, ok, "entry must still be live at +4s")
	assert.Equal(t, "v", string(got))

	*now = now.Add(2 * time.Second)
	_, ok = s.Get("quick", "600519", nil)
	assert.False(t, ok, "entry must be expired at +6s")
}

func TestStore_OverwriteIdempotence(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	s.Set("realtime_quote", "600519", []byte("v1"), nil, nil)
	s.Set("realtime_quote", "600519", []byte("v2"), nil, nil)

	got, ok := s.Get("realtime_quote", "600519", nil)
	assert.True(t, ok)
	assert.Equal(t, "v2", string(got))
}

func TestStore_Promotion(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	// kline_daily is on the persist allowlist, so this lands on disk too.
	s.Set("kline_daily", "600519", []byte("rows"), nil, map[string]string{"rows": "100"})
	require.Equal(t, 1, s.disk.len())

	// Simulate a memory eviction; only the disk copy remains.
	s.mu.Lock()
	s.mem.clear()
	s.mu.Unlock()

	got, ok := s.Get("kline_daily", "600519", nil)
	require.True(t, ok)
	assert.Equal(t, "rows", string(got))

	// The hit was promoted with disk provenance and its metadata intact.
	key := Key("kline_daily", "600519", nil)
	s.mu.Lock()
	e := s.mem.entries[key]
	s.mu.Unlock()
	require.NotNil(t, e)
	assert.Equal(t, SourceDisk, e.Source)
	assert.Equal(t, "100", e.Meta["rows"])

	// A second read is served from memory: remove the blob and the read
	// must still succeed.
	require.NoError(t, os.Remove(s.disk.blobPath(key)))
	got, ok = s.Get("kline_daily", "600519", nil)
	assert.True(t, ok)
	assert.Equal(t, "rows", string(got))
}

func TestStore_Touch(t *testing.T) {
	s, now := newTestStore(t, Options{})

	s.Set("realtime_quote", "600519", []byte("v"), nil, nil)

	*now = now.Add(10 * time.Second)
	_, _ = s.Get("realtime_quote", "600519", nil)
	_, _ = s.Get("realtime_quote", "600519", nil)

	key := Key("realtime_quote", "600519", nil)
	s.mu.Lock()
	e := s.mem.entries[key]
	s.mu.Unlock()
	require.NotNil(t, e)
	assert.Equal(t, 2, e.AccessCount)
	assert.Equal(t, *now, e.LastAccess)
}

func TestStore_PersistConditions(t *testing.T) {
	s, _ := newTestStore(t, Options{PersistThreshold: 100})

	// Small payload, non-allowlisted category: memory only.
	s.Set("realtime_quote", "600519", []byte("small"), nil, nil)
	assert.Equal(t, 0, s.disk.len())

	// Allowlisted category persists regardless of size.
	s.Set("kline_daily", "600519", []byte("small"), nil, nil)
	assert.Equal(t, 1, s.disk.len())

	// Oversized payload persists regardless of category.
	big := make([]byte, 101)
	s.Set("realtime_quote", "000001", big, nil, nil)
	assert.Equal(t, 2, s.disk.len())
}

func TestStore_ReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, Options{NoSweeper: true})
	require.NoError(t, err)
	s.Set("kline_daily", "600519", []byte("rows"), nil, nil)

	// A fresh store over the same root picks the entry up from the index.
	s2, err := New(dir, Options{NoSweeper: true})
	require.NoError(t, err)
	got, ok := s2.Get("kline_daily", "600519", nil)
	assert.True(t, ok)
	assert.Equal(t, "rows", string(got))
}

func TestStore_CorruptionTolerance(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	s.Set("kline_daily", "600519", []byte("rows"), nil, nil)
	key := Key("kline_daily", "600519", nil)

	s.mu.Lock()
	s.mem.clear()
	s.mu.Unlock()
	require.NoError(t, os.Remove(s.disk.blobPath(key)))

	// Index row points at a missing blob: miss, and the row is dropped.
	_, ok := s.Get("kline_daily", "600519", nil)
	assert.False(t, ok)
	s.mu.Lock()
	_, present := s.disk.index[key]
	s.mu.Unlock()
	assert.False(t, present, "stale index row must be dropped on access")
}

func TestStore_CorruptIndexStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFile), []byte("{not json"), 0o644))

	s, err := New(dir, Options{NoSweeper: true})
	require.NoError(t, err)
	assert.Equal(t, 0, s.disk.len())
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	s.Set("kline_daily", "600519", []byte("rows"), nil, nil)
	key := Key("kline_daily", "600519", nil)

	s.Delete("kline_daily", "600519", nil)

	_, ok := s.Get("kline_daily", "600519", nil)
	assert.False(t, ok)
	assert.NoFileExists(t, s.disk.blobPath(key))

	// Idempotent.
	s.Delete("kline_daily", "600519", nil)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	for i := 0; i < 5; i++ {
		s.Set("kline_daily", fmt.Sprintf("60051%d", i), []byte("rows"), nil, nil)
	}
	s.Clear()

	st := s.Stats()
	assert.Equal(t, 0, st.TotalEntries)

	blobs, err := filepath.Glob(filepath.Join(s.dir, "*.dat"))
	require.NoError(t, err)
	assert.Empty(t, blobs)
}

func TestStore_Sweep(t *testing.T) {
	s, now := newTestStore(t, Options{TTL: map[string]Policy{"kline_daily": {TTL: 10, Unit: "seconds"}}})

	for i := 0; i < 10; i++ {
		s.Set("kline_daily", fmt.Sprintf("60000%d", i), []byte("rows"), nil, nil)
	}
	require.Equal(t, 10, s.mem.len())
	require.Equal(t, 10, s.disk.len())

	*now = now.Add(11 * time.Second)
	removed := s.Sweep()

	// Ten logical entries lived in both tiers.
	assert.Equal(t, 20, removed)
	assert.Equal(t, 0, s.mem.len())
	assert.Equal(t, 0, s.disk.len())

	blobs, err := filepath.Glob(filepath.Join(s.dir, "*.dat"))
	require.NoError(t, err)
	assert.Empty(t, blobs, "sweep must remove blob files")
}

func TestStore_SweepKeepsLive(t *testing.T) {
	s, now := newTestStore(t, Options{
		TTL: map[string]Policy{
			"quick": {TTL: 5, Unit: "seconds"},
			"slow":  {TTL: 1, Unit: "hours"},
		},
	})

	s.Set("quick", "600519", []byte("v"), nil, nil)
	s.Set("slow", "600519", []byte("v"), nil, nil)

	*now = now.Add(time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, ok := s.Get("slow", "600519", nil)
	assert.True(t, ok)
}

func TestStore_SweeperLoop(t *testing.T) {
	s, err := New(t.TempDir(), Options{
		SweepInterval: 10 * time.Millisecond,
		TTL:           map[string]Policy{"blip": {TTL: 0, Unit: "seconds"}},
	})
	require.NoError(t, err)
	defer s.Close()

	s.Set("blip", "600519", []byte("v"), nil, nil)

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.mem.len() == 0
	}, time.Second, 5*time.Millisecond, "background sweeper must evict the expired entry")
}

func TestStore_CloseIdempotent(t *testing.T) {
	s, err := New(t.TempDir(), Options{SweepInterval: time.Hour})
	require.NoError(t, err)

	s.Close()
	s.Close()
}

func TestStore_Stats(t *testing.T) {
	s, now := newTestStore(t, Options{TTL: map[string]Policy{"quick": {TTL: 1, Unit: "seconds"}}})

	s.Set("quick", "600519", []byte("12345"), nil, nil)
	s.Set("kline_daily", "600519", []byte("1234567890"), nil, nil)

	*now = now.Add(2 * time.Second)
	st := s.Stats()
	assert.Equal(t, 2, st.MemoryEntries)
	assert.Equal(t, 1, st.DiskEntries)
	assert.Equal(t, 3, st.TotalEntries)
	assert.Equal(t, int64(15), st.MemoryBytes)
	assert.Equal(t, 1, st.ExpiredEntries)
}

func TestStore_EndToEnd(t *testing.T) {
	s, now := newTestStore(t, Options{})

	rows := []byte(`[{"date":"2026-08-21","close":1800.5},{"date":"2026-08-22","close":1811.0}]`)
	s.Set("kline_daily", "600519", rows, nil, nil)

	got, ok := s.Get("kline_daily", "600519", nil)
	require.True(t, ok)
	assert.Equal(t, rows, got)

	*now = now.Add(301 * time.Second)
	_, ok = s.Get("kline_daily", "600519", nil)
	assert.False(t, ok, "kline_daily must expire after 300s")
}
