// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points STOCKCTL_CFG at a testdata file and resets the
// global Config so it reloads.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("STOCKCTL_CFG", absPath)
	Config = Type{}

	t.Cleanup(func() {
		Config = Type{}
	})
}

func TestLoad(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Source)
	assert.Contains(t, cfg.Data, "cache")
	assert.Equal(t, "text", cfg.Data["output"])
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("STOCKCTL_CFG", "/nonexistent/path/stockctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_ConfigIsDirectory(t *testing.T) {
	t.Setenv("STOCKCTL_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")
	_, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name         string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "top level", key: "output", want: "text"},
		{name: "nested", key: "cache.dir", want: "/tmp/stockctl-cache"},
		{name: "missing with default", key: "nope", defaultValue: []string{"fallback"}, want: "fallback"},
		{name: "missing without default", key: "nope", wantErr: true},
		{name: "not a string", key: "cache.threshold", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetString_Namespaced(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")
	_, err := Load("qq")
	require.NoError(t, err)

	// qq.output shadows the global output.
	got, err := GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "json", got)
}

func TestGetInt(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")
	_, err := Load()
	require.NoError(t, err)

	got, err := GetInt("cache.threshold")
	require.NoError(t, err)
	assert.Equal(t, 20000, got)

	got, err = GetInt("cache.sweep", 300)
	require.NoError(t, err)
	assert.Equal(t, 120, got)

	got, err = GetInt("nope", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = GetInt("output")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")
	_, err := Load()
	require.NoError(t, err)

	got, err := GetStringSlice("cache.persist")
	require.NoError(t, err)
	assert.Equal(t, []string{"kline_daily", "financial_statements"}, got)

	got, err = GetStringSlice("nope", []string{"d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, got)
}

func TestGetIntMap(t *testing.T) {
	setupTestConfig(t, "stockctl.yaml")
	_, err := Load()
	require.NoError(t, err)

	got, err := GetIntMap("cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"realtime_quote": 30, "kline_daily": 600}, got)

	_, err = GetIntMap("output")
	assert.Error(t, err)
}
