// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("kline_daily", "600519", map[string]string{"count": "100", "fqt": "1"})
	b := Key("kline_daily", "600519", map[string]string{"fqt": "1", "count": "100"})
	assert.Equal(t, a, b, "param order must not affect the key")
	assert.Len(t, a, 32)
}

func TestKey_NoParams(t *testing.T) {
	a := Key("realtime_quote", "600519", nil)
	b := Key("realtime_quote", "600519", map[string]string{})
	assert.Equal(t, a, b)
}

func TestKey_Distinct(t *testing.T) {
	base := Key("kline_daily", "600519", map[string]string{"count": "100"})

	tests := []struct {
		name     string
		category string
		ident    string
		params   map[string]string
	}{
		{"different category", "kline_weekly", "600519", map[string]string{"count": "100"}},
		{"different identifier", "kline_daily", "000001", map[string]string{"count": "100"}},
		{"different param value", "kline_daily", "600519", map[string]string{"count": "200"}},
		{"extra param", "kline_daily", "600519", map[string]string{"count": "100", "fqt": "1"}},
		{"different op", "kline_daily", "600519", map[string]string{"count": "100", OpParam: "kq"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, Key(tt.category, tt.ident, tt.params))
		})
	}
}
