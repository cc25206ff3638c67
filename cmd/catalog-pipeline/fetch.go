// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the resource_search and local_search artifacts",
	Long: `Fetch downloads both API responses into the data directory without
invoking the loader. Existing artifacts are overwritten.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	deps, closeDeps, err := newDeps(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closeDeps()

	records, err := pipeline.Fetch(cmd.Context(), cfg, deps)
	failed := 0
	for _, r := range records {
		if !r.OK() {
			failed++
		}
	}
	fmt.Fprintf(os.Stdout, "\nFetch summary: %d fetched, %d failed\n", len(records)-failed, failed)
	return err
}
