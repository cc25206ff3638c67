// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// ManifestName is the run manifest file written beside the artifacts.
const ManifestName = "run.yaml"

// WriteManifest replaces the manifest at path with rec.
func WriteManifest(path string, rec types.RunRecord) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing manifest: %w", errorsFirst(writeErr, closeErr))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest at path.
func ReadManifest(path string) (types.RunRecord, error) {
	var rec types.RunRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return rec, nil
}

func errorsFirst(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
