// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyDuration(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   time.Duration
	}{
		{"seconds", Policy{TTL: 60, Unit: "seconds"}, 60 * time.Second},
		{"default unit is seconds", Policy{TTL: 30}, 30 * time.Second},
		{"minutes", Policy{TTL: 5, Unit: "minutes"}, 5 * time.Minute},
		{"hours", Policy{TTL: 2, Unit: "hours"}, 2 * time.Hour},
		{"days", Policy{TTL: 1, Unit: "days"}, 24 * time.Hour},
		{"unknown unit falls back", Policy{TTL: 9, Unit: "fortnights"}, DefaultTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Duration())
		})
	}
}

func TestTableTTL(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 60*time.Second, table.TTL("realtime_quote"))
	assert.Equal(t, 300*time.Second, table.TTL("kline_daily"))
	assert.Equal(t, 24*time.Hour, table.TTL("financial_statements"))
	assert.Equal(t, DefaultTTL, table.TTL("no_such_category"))
}

func TestTableSwap_Restores(t *testing.T) {
	table := DefaultTable()

	restore := table.Swap("kline_daily", 5*time.Second)
	assert.Equal(t, 5*time.Second, table.TTL("kline_daily"))

	restore()
	assert.Equal(t, 300*time.Second, table.TTL("kline_daily"))
}

func TestTableSwap_RestoresOnFailure(t *testing.T) {
	table := DefaultTable()

	// The override must not outlive the guarded operation, even when the
	// operation fails.
	err := func() error {
		restore := table.Swap("kline_daily", time.Second)
		defer restore()
		return errors.New("fetch exploded")
	}()

	assert.Error(t, err)
	assert.Equal(t, 300*time.Second, table.TTL("kline_daily"))
}

func TestTableSwap_UnknownCategory(t *testing.T) {
	table := DefaultTable()

	restore := table.Swap("oddball", 7*time.Second)
	assert.Equal(t, 7*time.Second, table.TTL("oddball"))

	restore()
	assert.Equal(t, DefaultTTL, table.TTL("oddball"))
}
