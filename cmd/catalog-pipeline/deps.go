// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/internal/fetch"
	"github.com/pdiddy/catalog-pipeline/internal/journal"
	"github.com/pdiddy/catalog-pipeline/internal/loader"
	"github.com/pdiddy/catalog-pipeline/internal/logging"
	"github.com/pdiddy/catalog-pipeline/internal/pipeline"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// newDeps wires the production collaborators for cfg. The returned close
// function releases the journal, if one was opened.
func newDeps(cfg types.PipelineConfig, out io.Writer) (pipeline.Deps, func(), error) {
	store := artifact.NewDirStore(cfg.Fetch.DataDir, cfg.Fetch.Prefix)
	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	d := pipeline.Deps{
		Fetcher:      fetch.New(client, store, cfg.Fetch, out, logging.New("fetch")),
		Store:        store,
		Invoker:      loader.NewProcessInvoker(os.Stdout, os.Stderr),
		ManifestPath: filepath.Join(cfg.Fetch.DataDir, pipeline.ManifestName),
		Out:          out,
		Logger:       logging.New("pipeline"),
	}

	closeFn := func() {}
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return d, closeFn, err
		}
		d.Journal = j
		closeFn = func() { j.Close() }
	}
	return d, closeFn, nil
}
