// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunOutcome summarises how a pipeline run ended.
type RunOutcome string

const (
	OutcomeSuccess      RunOutcome = "success"
	OutcomeFetchFailed  RunOutcome = "fetch_failed"
	OutcomeConfigFailed RunOutcome = "config_failed"
	OutcomeLoaderFailed RunOutcome = "loader_failed"
	OutcomeCancelled    RunOutcome = "cancelled"
)

// FetchRecord is the outcome of a single endpoint fetch.
type FetchRecord struct {
	Slot       Slot   `json:"slot" yaml:"slot"`
	URL        string `json:"url" yaml:"url"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the fetch produced a usable artifact.
func (r FetchRecord) OK() bool {
	return r.Error == ""
}

// RunRecord describes one pipeline run. It is written to the run manifest
// and, when enabled, the run journal.
type RunRecord struct {
	ID         int64         `json:"id,omitempty" yaml:"id,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Fetches    []FetchRecord `json:"fetches" yaml:"fetches"`

	// Command is the loader command line echoed before execution. Empty
	// when the loader was never invoked.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// LoaderExitCode is the child's exit status, or -1 when not invoked.
	LoaderExitCode int        `json:"loader_exit_code" yaml:"loader_exit_code"`
	ExitCode       int        `json:"exit_code" yaml:"exit_code"`
	Outcome        RunOutcome `json:"outcome" yaml:"outcome"`
	Error          string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration returns the wall-clock time the run took.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
