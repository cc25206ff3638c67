// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the fetch-and-load job: fetch the resource_search
// artifact, fetch the local_search artifact, then hand one of them to the
// external catalog loader. Steps run strictly in sequence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/internal/fetch"
	"github.com/pdiddy/catalog-pipeline/internal/loader"
	"github.com/pdiddy/catalog-pipeline/internal/logging"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// exitNotFound mirrors the shell's status for a command that cannot be found.
const exitNotFound = 127

// ExitError carries the process exit status a failed run should end with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit status for err: 0 for nil, the carried code for
// an *ExitError, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Fetcher retrieves one endpoint into its artifact slot.
type Fetcher interface {
	Fetch(ctx context.Context, ep types.Endpoint) (types.FetchRecord, error)
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, rec types.RunRecord) (int64, error)
}

// Deps are the collaborators of a run.
type Deps struct {
	Fetcher Fetcher
	Store   artifact.Store
	Invoker loader.Invoker

	// Journal, when set, receives every finished run.
	Journal Recorder

	// ManifestPath, when set, is overwritten with the finished run as YAML.
	ManifestPath string

	// Out receives the loader command echo. Nil discards.
	Out    io.Writer
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) defaults() {
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Run executes both fetches and the loader invocation. The returned error
// is nil on success and otherwise an *ExitError whose code is 1 for fetch or
// configuration failures and the loader's own status when the loader fails.
// The run record is returned in every case.
func Run(ctx context.Context, cfg types.PipelineConfig, d Deps) (types.RunRecord, error) {
	d.defaults()
	rec := types.RunRecord{StartedAt: d.Now(), LoaderExitCode: -1}

	fetches, err := fetchAll(ctx, cfg, d)
	rec.Fetches = fetches
	if err != nil {
		failed := types.OutcomeFetchFailed
		if len(fetches) == 0 {
			failed = types.OutcomeConfigFailed
		}
		return finish(ctx, d, rec, err, failed)
	}

	failed, err := load(ctx, cfg, d, d.Store.Path(cfg.Loader.SourceSlot), &rec)
	return finish(ctx, d, rec, err, failed)
}

// Fetch runs only the fetch steps and applies the configured fetch error
// policy. It neither writes the manifest nor records to the journal.
func Fetch(ctx context.Context, cfg types.PipelineConfig, d Deps) ([]types.FetchRecord, error) {
	d.defaults()
	return fetchAll(ctx, cfg, d)
}

// Load runs only the loader against the artifact at sourcePath.
func Load(ctx context.Context, cfg types.PipelineConfig, d Deps, sourcePath string) (types.RunRecord, error) {
	d.defaults()
	rec := types.RunRecord{StartedAt: d.Now(), LoaderExitCode: -1}
	failed, err := load(ctx, cfg, d, sourcePath, &rec)
	return finish(ctx, d, rec, err, failed)
}

func fetchAll(ctx context.Context, cfg types.PipelineConfig, d Deps) ([]types.FetchRecord, error) {
	log := d.Logger
	eps, err := fetch.Endpoints(cfg.Fetch)
	if err != nil {
		return nil, &ExitError{Code: 1, Err: fmt.Errorf("building endpoints: %w", err)}
	}

	var records []types.FetchRecord
	var failed []error
	for _, ep := range eps {
		rec, err := d.Fetcher.Fetch(ctx, ep)
		records = append(records, rec)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return records, &ExitError{Code: 1, Err: ctx.Err()}
		}
		if cfg.OnFetchError != types.OnFetchErrorContinue {
			return records, &ExitError{Code: 1, Err: err}
		}
		log.Warn("fetch failed, continuing", "slot", ep.Slot, "error", err)
		failed = append(failed, err)
	}
	if len(failed) > 0 {
		log.Warn("proceeding after fetch failures", "failed", len(failed), "policy", string(cfg.OnFetchError))
	}
	return records, nil
}

// load invokes the loader and reports which outcome applies if it failed.
func load(ctx context.Context, cfg types.PipelineConfig, d Deps, sourcePath string, rec *types.RunRecord) (types.RunOutcome, error) {
	log := d.Logger
	if cfg.Loader.CheckConfig {
		if err := loader.CheckConfig(cfg.Loader.ConfigPath); err != nil {
			return types.OutcomeConfigFailed, &ExitError{Code: 1, Err: err}
		}
	}

	inv := loader.NewInvocation(cfg.Loader, sourcePath)
	rec.Command = inv.CommandLine()
	fmt.Fprintln(d.Out, rec.Command)
	log.Info("invoking loader", "source", inv.Source, "config", inv.ConfigPath)

	res, err := d.Invoker.Invoke(ctx, inv)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return types.OutcomeCancelled, &ExitError{Code: 1, Err: ctx.Err()}
		case errors.Is(err, loader.ErrLoaderNotFound):
			rec.LoaderExitCode = exitNotFound
			return types.OutcomeLoaderFailed, &ExitError{Code: exitNotFound, Err: err}
		}
		return types.OutcomeLoaderFailed, &ExitError{Code: 1, Err: err}
	}

	rec.LoaderExitCode = res.ExitCode
	if res.ExitCode != 0 {
		log.Error("loader failed", "exit_code", res.ExitCode)
		return types.OutcomeLoaderFailed, &ExitError{Code: res.ExitCode, Err: fmt.Errorf("loader exited with status %d", res.ExitCode)}
	}
	log.Info("loader finished", "exit_code", 0)
	return types.OutcomeSuccess, nil
}

// finish stamps the record, classifying a failure as failed unless the
// context was cancelled, then writes the manifest and journal entry.
func finish(ctx context.Context, d Deps, rec types.RunRecord, err error, failed types.RunOutcome) (types.RunRecord, error) {
	rec.FinishedAt = d.Now()
	rec.ExitCode = ExitCode(err)
	rec.Outcome = outcomeOf(err, failed)
	if err != nil {
		rec.Error = err.Error()
	}

	if d.ManifestPath != "" {
		if werr := WriteManifest(d.ManifestPath, rec); werr != nil {
			d.Logger.Warn("writing run manifest", "path", d.ManifestPath, "error", werr)
		}
	}
	if d.Journal != nil {
		// Record even when ctx was cancelled so interrupted runs are logged.
		id, jerr := d.Journal.Record(context.WithoutCancel(ctx), rec)
		if jerr != nil {
			d.Logger.Warn("recording run in journal", "error", jerr)
		} else {
			rec.ID = id
		}
	}
	return rec, err
}

func outcomeOf(err error, failed types.RunOutcome) types.RunOutcome {
	switch {
	case err == nil:
		return types.OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return types.OutcomeCancelled
	}
	return failed
}
