// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"time"
)

// DefaultTTL applies to categories without a policy and to unknown units.
const DefaultTTL = 300 * time.Second

// Policy describes how long one category of data stays fresh.
type Policy struct {
	TTL  int    `yaml:"ttl"`
	Unit string `yaml:"unit"`
}

// Duration resolves the policy to a time.Duration. Units are seconds
// (the default), minutes, hours or days.
func (p Policy) Duration() time.Duration {
	switch p.Unit {
	case "", "seconds":
		return time.Duration(p.TTL) * time.Second
	case "minutes":
		return time.Duration(p.TTL) * time.Minute
	case "hours":
		return time.Duration(p.TTL) * time.Hour
	case "days":
		return time.Duration(p.TTL) * 24 * time.Hour
	default:
		return DefaultTTL
	}
}

// Table maps a data category to its expiration policy.
type Table struct {
	mu       sync.Mutex
	policies map[string]Policy
}

// DefaultTable returns the stock data policy table. Fast-moving quote data
// expires in minutes, statements and slow aggregates in hours or days.
func DefaultTable() *Table {
	return &Table{policies: map[string]Policy{
		"realtime_quote":          {TTL: 60, Unit: "seconds"},
		"kline_daily":             {TTL: 300, Unit: "seconds"},
		"kline_weekly":            {TTL: 1800, Unit: "seconds"},
		"kline_monthly":           {TTL: 1, Unit: "hours"},
		"financial_statements":    {TTL: 1, Unit: "days"},
		"valuation_metrics":       {TTL: 1, Unit: "hours"},
		"institutional_holdings":  {TTL: 1, Unit: "hours"},
		"fund_flow":               {TTL: 300, Unit: "seconds"},
		"north_south_bound":       {TTL: 300, Unit: "seconds"},
		"analyst_ratings":         {TTL: 1, Unit: "hours"},
		"sector_performance":      {TTL: 600, Unit: "seconds"},
		"search_data":             {TTL: 1800, Unit: "seconds"},
	}}
}

// Set installs or replaces the permanent policy for category.
func (t *Table) Set(category string, p Policy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.policies[category] = p
}

// TTL resolves the duration for category, falling back to DefaultTTL for
// unknown categories.
func (t *Table) TTL(category string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.policies[category]
	if !ok {
		return DefaultTTL
	}
	return p.Duration()
}

// Swap installs a temporary policy for category and returns a func that
// puts the permanent entry back. Callers must defer the restore so the
// table is repaired even when the guarded operation fails.
func (t *Table) Swap(category string, d time.Duration) (restore func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, had := t.policies[category]
	t.policies[category] = Policy{TTL: int(d / time.Second), Unit: "seconds"}

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if had {
			t.policies[category] = prev
		} else {
			delete(t.policies, category)
		}
	}
}
