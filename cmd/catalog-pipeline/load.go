// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/internal/loader"
	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Invoke the catalog loader against an existing artifact",
	Long: `Load runs the catalog loader without fetching. The source defaults to
the configured artifact slot; --source accepts a slot name (training,
training_local), a file: locator, or a plain path.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("source", "", "artifact slot, file: locator, or path (default: loader.source_slot)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	deps, closeDeps, err := newDeps(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closeDeps()

	source, _ := cmd.Flags().GetString("source")
	path, err := resolveSource(deps.Store, cfg.Loader.SourceSlot, source)
	if err != nil {
		return err
	}

	_, err = pipeline.Load(cmd.Context(), cfg, deps, path)
	return err
}

// resolveSource turns the --source value into a local artifact path.
func resolveSource(store artifact.Store, def types.Slot, source string) (string, error) {
	if source == "" {
		return store.Path(def), nil
	}
	if slot := types.Slot(source); slot.Valid() {
		return store.Path(slot), nil
	}
	if loc, err := loader.ParseLocator(source); err == nil {
		if !loc.IsFile() {
			return "", fmt.Errorf("source %q: only file: locators can be loaded from here", source)
		}
		return loc.Path, nil
	}
	return source, nil
}
