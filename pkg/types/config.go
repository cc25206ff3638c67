// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// DefaultBaseURL is the resource-search API root queried by the fetch stage.
const DefaultBaseURL = "https://info.xsede.org/wh1/resource-api/v3"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client without a
	// deadline, matching the behavior of the original shell fetch.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "catalog-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the resource API root; endpoint paths are appended to it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Affiliation is the institutional domain sent as the affiliation query
	// parameter (e.g. "uiuc.edu").
	Affiliation string `json:"affiliation" yaml:"affiliation" mapstructure:"affiliation"`

	// ResourceGroups selects resource_search categories.
	ResourceGroups []string `json:"resource_groups" yaml:"resource_groups" mapstructure:"resource_groups"`

	// LocalTypes selects local_search types (default "resource").
	LocalTypes []string `json:"localtypes" yaml:"localtypes" mapstructure:"localtypes"`

	// DataDir is the directory holding artifacts (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Prefix names artifacts: <prefix>_training.json, <prefix>_training_local.json.
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// ValidateJSON rejects response bodies that are not valid JSON.
	ValidateJSON bool `json:"validate_json" yaml:"validate_json" mapstructure:"validate_json"`
}

// LoaderConfig describes the external catalog loader and its arguments.
type LoaderConfig struct {
	// Executable is the loader program path.
	Executable string `json:"executable" yaml:"executable" mapstructure:"executable"`

	// Interpreter, when set, is run with Executable as its first argument
	// (e.g. "python3").
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty" mapstructure:"interpreter"`

	// ConfigPath is passed to the loader as -c.
	ConfigPath string `json:"config_path" yaml:"config_path" mapstructure:"config_path"`

	// LogLevel is passed to the loader as -l (default "debug").
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	// SourceSlot selects which artifact becomes the -s file: locator.
	SourceSlot Slot `json:"source_slot" yaml:"source_slot" mapstructure:"source_slot"`

	// ExtraArgs are appended after the fixed argument contract.
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty" mapstructure:"extra_args"`

	// CheckConfig verifies ConfigPath exists before spawning the loader.
	CheckConfig bool `json:"check_config" yaml:"check_config" mapstructure:"check_config"`
}

// JournalConfig controls the optional sqlite run journal.
type JournalConfig struct {
	// Path is the sqlite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Limit is the default number of runs listed (default 20).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// FetchErrorPolicy decides what the pipeline does after a failed fetch.
type FetchErrorPolicy string

const (
	// OnFetchErrorAbort stops the run before the loader is invoked.
	OnFetchErrorAbort FetchErrorPolicy = "abort"
	// OnFetchErrorContinue logs the failure and carries on, like the
	// original shell scripts did.
	OnFetchErrorContinue FetchErrorPolicy = "continue"
)

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch        FetchConfig      `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Loader       LoaderConfig     `json:"loader" yaml:"loader" mapstructure:"loader"`
	Journal      JournalConfig    `json:"journal" yaml:"journal" mapstructure:"journal"`
	OnFetchError FetchErrorPolicy `json:"on_fetch_error" yaml:"on_fetch_error" mapstructure:"on_fetch_error"`
}

// DefaultPipelineConfig returns the configuration of the refined UIUC
// training fetch-and-load job.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				UserAgent:  "catalog-pipeline/0.1",
				MaxRetries: 5,
			},
			BaseURL:        DefaultBaseURL,
			Affiliation:    "uiuc.edu",
			ResourceGroups: []string{"Streamed Events", "Online Training"},
			LocalTypes:     []string{"resource"},
			DataDir:        "data",
			Prefix:         "uiuc",
			ValidateJSON:   true,
		},
		Loader: LoaderConfig{
			Executable:  "./bin/uiuc_training_load.py",
			ConfigPath:  "./conf/uiuc_training_load.conf",
			LogLevel:    "debug",
			SourceSlot:  SlotTrainingLocal,
			CheckConfig: true,
		},
		Journal: JournalConfig{
			Limit: 20,
		},
		OnFetchError: OnFetchErrorAbort,
	}
}

// Validate returns all configuration problems joined into one error.
func (c PipelineConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Fetch.Affiliation) == "" {
		errs = append(errs, errors.New("fetch.affiliation is required"))
	}
	if c.Fetch.BaseURL == "" {
		errs = append(errs, errors.New("fetch.base_url is required"))
	}
	if len(c.Fetch.ResourceGroups) == 0 {
		errs = append(errs, errors.New("fetch.resource_groups must name at least one group"))
	}
	if c.Fetch.Prefix == "" {
		errs = append(errs, errors.New("fetch.prefix is required"))
	}
	if c.Loader.Executable == "" {
		errs = append(errs, errors.New("loader.executable is required"))
	}
	if c.Loader.ConfigPath == "" {
		errs = append(errs, errors.New("loader.config_path is required"))
	}
	if !c.Loader.SourceSlot.Valid() {
		errs = append(errs, fmt.Errorf("loader.source_slot %q is not one of %v", c.Loader.SourceSlot, Slots()))
	}
	switch c.OnFetchError {
	case OnFetchErrorAbort, OnFetchErrorContinue:
	default:
		errs = append(errs, fmt.Errorf("on_fetch_error %q must be %q or %q", c.OnFetchError, OnFetchErrorAbort, OnFetchErrorContinue))
	}
	return errors.Join(errs...)
}

// LoadPipelineConfig decodes a YAML config file over the defaults.
// Keys missing from the file keep their default values.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
