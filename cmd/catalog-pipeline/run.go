// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch both artifacts and invoke the catalog loader",
	Long: `Run fetches the resource_search and local_search responses for the
configured affiliation, writes them to the data directory, then invokes the
catalog loader with the local_search artifact as its file: source.

A failed fetch stops the run before the loader unless --on-fetch-error=continue
is given. The loader's exit status becomes the exit status of this command.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	deps, closeDeps, err := newDeps(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closeDeps()

	rec, err := pipeline.Run(cmd.Context(), cfg, deps)
	fmt.Fprintf(os.Stdout, "\nRun summary: %s in %s (exit %d)\n",
		rec.Outcome, rec.Duration().Round(time.Millisecond), rec.ExitCode)
	return err
}
