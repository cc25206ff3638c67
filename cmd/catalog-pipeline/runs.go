// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-pipeline/internal/journal"
	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent pipeline runs",
	Long: `Runs lists recent runs from the sqlite journal. When no journal is
configured it shows the last run manifest from the data directory.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 0, "number of runs to list (default: journal.limit)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	if cfg.Journal.Path == "" {
		rec, err := pipeline.ReadManifest(filepath.Join(cfg.Fetch.DataDir, pipeline.ManifestName))
		if err != nil {
			return fmt.Errorf("no journal configured and no manifest found: %w", err)
		}
		formatRuns(os.Stdout, []types.RunRecord{rec})
		return nil
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Journal.Limit
	}
	runs, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	formatRuns(os.Stdout, runs)
	return nil
}

// formatRuns writes runs as a human-readable table.
func formatRuns(w io.Writer, runs []types.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-9s  %-14s  %-4s  %s\n",
		"ID", "Started", "Duration", "Outcome", "Exit", "Fetches")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range runs {
		id := "-"
		if r.ID > 0 {
			id = fmt.Sprintf("%d", r.ID)
		}
		fmt.Fprintf(w, "%-5s  %-20s  %-9s  %-14s  %-4d  %s\n",
			id, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration().Round(10*time.Millisecond).String(), r.Outcome, r.ExitCode, fetchSummary(r.Fetches))
	}
}

func fetchSummary(fetches []types.FetchRecord) string {
	parts := make([]string, 0, len(fetches))
	for _, f := range fetches {
		status := fmt.Sprintf("%d", f.StatusCode)
		if f.StatusCode == 0 {
			status = "err"
		}
		parts = append(parts, fmt.Sprintf("%s=%s/%dB", f.Slot, status, f.Bytes))
	}
	return strings.Join(parts, " ")
}
