// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/internal/inspect"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [slot-or-path...]",
	Short: "Validate fetched artifacts and summarise their records",
	Long: `Inspect parses each artifact as JSON and reports its top-level keys and
record count. With no arguments both artifact slots are inspected. Any
artifact that fails to parse makes the command exit non-zero.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	rootCmd.AddCommand(inspectCmd)
}

type inspected struct {
	Path    string          `json:"path" yaml:"path"`
	Summary inspect.Summary `json:"summary" yaml:"summary"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	store := artifact.NewDirStore(cfg.Fetch.DataDir, cfg.Fetch.Prefix)

	targets := args
	if len(targets) == 0 {
		for _, s := range types.Slots() {
			targets = append(targets, string(s))
		}
	}

	var results []inspected
	failed := 0
	for _, t := range targets {
		path := t
		if slot := types.Slot(t); slot.Valid() {
			path = store.Path(slot)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		s, err := inspect.Summarize(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		results = append(results, inspected{Path: path, Summary: s})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		for _, r := range results {
			inspect.WriteText(os.Stdout, r.Path, r.Summary)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d artifact(s) failed inspection", failed)
	}
	return nil
}
