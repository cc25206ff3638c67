// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v, types.DefaultPipelineConfig())
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	def := types.DefaultPipelineConfig()
	assert.Equal(t, def.Fetch.BaseURL, cfg.Fetch.BaseURL)
	assert.Equal(t, def.Fetch.Affiliation, cfg.Fetch.Affiliation)
	assert.Equal(t, def.Fetch.ResourceGroups, cfg.Fetch.ResourceGroups)
	assert.Equal(t, def.Fetch.LocalTypes, cfg.Fetch.LocalTypes)
	assert.Equal(t, def.Fetch.MaxRetries, cfg.Fetch.MaxRetries)
	assert.True(t, cfg.Fetch.ValidateJSON)
	assert.Equal(t, def.Loader.Executable, cfg.Loader.Executable)
	assert.Equal(t, def.Loader.SourceSlot, cfg.Loader.SourceSlot)
	assert.True(t, cfg.Loader.CheckConfig)
	assert.Equal(t, types.OnFetchErrorAbort, cfg.OnFetchError)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog-pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fetch:
  affiliation: illinois.edu
  resource_groups: ["Online Training"]
  timeout: 45s
  data_dir: out
loader:
  executable: ./hpc-ed_load_example1.py
  interpreter: python3
  source_slot: training
on_fetch_error: continue
`), 0o644))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "illinois.edu", cfg.Fetch.Affiliation)
	assert.Equal(t, []string{"Online Training"}, cfg.Fetch.ResourceGroups)
	assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "out", cfg.Fetch.DataDir)
	assert.Equal(t, "catalog-pipeline/0.1", cfg.Fetch.UserAgent, "unset keys keep defaults")
	assert.Equal(t, "python3", cfg.Loader.Interpreter)
	assert.Equal(t, types.SlotTraining, cfg.Loader.SourceSlot)
	assert.Equal(t, "debug", cfg.Loader.LogLevel)
	assert.Equal(t, types.OnFetchErrorContinue, cfg.OnFetchError)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := newTestViper(t)
	v.Set("on_fetch_error", "retry")
	v.Set("fetch.affiliation", "")

	_, err := loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_fetch_error")
	assert.Contains(t, err.Error(), "fetch.affiliation")
}

func TestResolveSource(t *testing.T) {
	store := artifact.NewDirStore("data", "uiuc")
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr bool
	}{
		{"default slot", "", filepath.Join("data", "uiuc_training_local.json"), false},
		{"slot name", "training", filepath.Join("data", "uiuc_training.json"), false},
		{"file locator", "file:/tmp/cache.json", "/tmp/cache.json", false},
		{"plain path", "other/cache.json", "other/cache.json", false},
		{"http locator rejected", "https://example.test/x.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSource(store, types.SlotTrainingLocal, tt.source)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRuns(t *testing.T) {
	var buf bytes.Buffer
	formatRuns(&buf, nil)
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	formatRuns(&buf, []types.RunRecord{{
		ID:         7,
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Outcome:    types.OutcomeLoaderFailed,
		ExitCode:   2,
		Fetches: []types.FetchRecord{
			{Slot: types.SlotTraining, StatusCode: 200, Bytes: 16},
			{Slot: types.SlotTrainingLocal, Bytes: 0, Error: "dial tcp: refused"},
		},
	}})
	out := buf.String()
	assert.Contains(t, out, "loader_failed")
	assert.Contains(t, out, "training=200/16B training_local=err/0B")
	assert.Contains(t, out, "2s")
}
