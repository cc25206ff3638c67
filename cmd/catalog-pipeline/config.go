// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// setDefaults registers every config key with v so environment variables
// and config files can override it.
func setDefaults(v *viper.Viper, cfg types.PipelineConfig) {
	f := cfg.Fetch
	v.SetDefault("fetch.timeout", f.Timeout)
	v.SetDefault("fetch.user_agent", f.UserAgent)
	v.SetDefault("fetch.max_retries", f.MaxRetries)
	v.SetDefault("fetch.base_url", f.BaseURL)
	v.SetDefault("fetch.affiliation", f.Affiliation)
	v.SetDefault("fetch.resource_groups", f.ResourceGroups)
	v.SetDefault("fetch.localtypes", f.LocalTypes)
	v.SetDefault("fetch.data_dir", f.DataDir)
	v.SetDefault("fetch.prefix", f.Prefix)
	v.SetDefault("fetch.validate_json", f.ValidateJSON)

	l := cfg.Loader
	v.SetDefault("loader.executable", l.Executable)
	v.SetDefault("loader.interpreter", l.Interpreter)
	v.SetDefault("loader.config_path", l.ConfigPath)
	v.SetDefault("loader.log_level", l.LogLevel)
	v.SetDefault("loader.source_slot", string(l.SourceSlot))
	v.SetDefault("loader.extra_args", l.ExtraArgs)
	v.SetDefault("loader.check_config", l.CheckConfig)

	v.SetDefault("journal.path", cfg.Journal.Path)
	v.SetDefault("journal.limit", cfg.Journal.Limit)
	v.SetDefault("on_fetch_error", string(cfg.OnFetchError))
}

// loadConfig decodes the merged viper settings into a validated pipeline
// configuration. Every key has a default registered by setDefaults, so the
// struct is decoded from zero.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
