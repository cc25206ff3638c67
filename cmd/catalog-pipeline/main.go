// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-pipeline CLI.
// It fetches training resources from the resource-search API and hands the
// result to the external catalog loader.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/internal/logging"
	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the catalog-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "catalog-pipeline",
	Short: "Fetch training resources and hand them to the catalog loader",
	Long: `catalog-pipeline downloads resource records for an institutional
affiliation from the resource-search API, writes each response to a file under
the data directory, and runs the external catalog loader against one of them:

  <loader> -c <config> -s file:<artifact> -l <level>

The run subcommand does all three steps in order; fetch and load run one side
on its own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logging.Init(level, viper.GetString("log_format"))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./catalog-pipeline.yaml or ~/.config/catalog-pipeline/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warning, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("base-url", "", "resource API base URL")
	pf.String("affiliation", "", "institutional affiliation domain (e.g. uiuc.edu)")
	pf.String("data-dir", "", "directory for fetched artifacts")
	pf.String("loader", "", "catalog loader executable")
	pf.String("loader-config", "", "catalog loader configuration file (-c)")
	pf.String("loader-log-level", "", "log level passed to the loader (-l)")
	pf.String("on-fetch-error", "", "after a failed fetch: abort or continue")
	pf.String("journal", "", "sqlite run journal path (empty disables)")

	for key, flag := range map[string]string{
		"log_level":          "log-level",
		"log_format":         "log-format",
		"fetch.base_url":     "base-url",
		"fetch.affiliation":  "affiliation",
		"fetch.data_dir":     "data-dir",
		"loader.executable":  "loader",
		"loader.config_path": "loader-config",
		"loader.log_level":   "loader-log-level",
		"on_fetch_error":     "on-fetch-error",
		"journal.path":       "journal",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-pipeline"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultPipelineConfig())
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	viper.SetEnvPrefix("CATALOG_PIPELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(pipeline.ExitCode(err))
	}
}
