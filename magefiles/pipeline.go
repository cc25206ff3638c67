//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// configFile is the pipeline config mage targets pass to the CLI.
func configFile() string {
	if p := os.Getenv("CATALOG_PIPELINE_CONFIG"); p != "" {
		return p
	}
	return "catalog-pipeline.yaml"
}

// cliArgs prefixes args with --config when the config file exists.
func cliArgs(args ...string) []string {
	if _, err := os.Stat(configFile()); err == nil {
		return append([]string{"--config", configFile()}, args...)
	}
	return args
}

// Config validates the pipeline config file and prints the resolved endpoints.
func Config() error {
	cfg, err := types.LoadPipelineConfig(configFile())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Printf("affiliation: %s\n", cfg.Fetch.Affiliation)
	fmt.Printf("data dir:    %s\n", cfg.Fetch.DataDir)
	fmt.Printf("loader:      %s -c %s\n", cfg.Loader.Executable, cfg.Loader.ConfigPath)
	return nil
}

// Fetch downloads both artifacts without running the loader.
func Fetch() error {
	mg.Deps(Build, Init)
	return sh.RunV("./bin/catalog-pipeline", cliArgs("fetch")...)
}

// Run fetches both artifacts and invokes the catalog loader.
func Run() error {
	mg.Deps(Build, Init)
	return sh.RunV("./bin/catalog-pipeline", cliArgs("run")...)
}

// Inspect summarises the fetched artifacts.
func Inspect() error {
	mg.Deps(Build)
	return sh.RunV("./bin/catalog-pipeline", cliArgs("inspect")...)
}
