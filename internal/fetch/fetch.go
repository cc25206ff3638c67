// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads resource-search API responses into artifact slots.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdiddy/catalog-pipeline/internal/artifact"
	"github.com/pdiddy/catalog-pipeline/internal/httputil"
	"github.com/pdiddy/catalog-pipeline/internal/logging"
	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// ErrInvalidJSON is returned when a response body does not parse as JSON.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Fetcher issues GET requests and writes each body to its endpoint's slot.
type Fetcher struct {
	client *http.Client
	store  artifact.Store
	cfg    types.FetchConfig
	out    io.Writer
	logger *slog.Logger
}

// New returns a Fetcher. Listing lines are printed to out; a nil out
// discards them. A nil logger discards log records.
func New(client *http.Client, store artifact.Store, cfg types.FetchConfig, out io.Writer, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fetcher{client: client, store: store, cfg: cfg, out: out, logger: logger}
}

// Fetch retrieves ep and replaces the content of ep.Slot with the response
// body. The body is written even when the status is not 2xx, so the slot
// always holds the most recent response; the returned error then wraps a
// *StatusError. The returned record is filled in as far as the fetch got.
func (f *Fetcher) Fetch(ctx context.Context, ep types.Endpoint) (types.FetchRecord, error) {
	rec := types.FetchRecord{Slot: ep.Slot, URL: ep.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return f.fail(rec, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("XA-CLIENT", ep.Affiliation)
	req.Header.Set("XA-KEY-FORMAT", "underscore")

	f.logger.Debug("HTTP GET", "slot", ep.Slot, "url", ep.URL)
	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return f.fail(rec, fmt.Errorf("HTTP request: %w", err))
	}
	defer resp.Body.Close()

	rec.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return f.fail(rec, fmt.Errorf("reading response body: %w", err))
	}
	f.logger.Debug("HTTP RESP", "slot", ep.Slot, "status", resp.Status, "bytes", len(body))

	info, err := f.store.Write(ep.Slot, body)
	if err != nil {
		return f.fail(rec, fmt.Errorf("storing response: %w", err))
	}
	rec.Path = info.Path
	rec.Bytes = info.Size
	fmt.Fprintln(f.out, info.ListingLine())

	if !httputil.IsSuccess(resp.StatusCode) {
		f.logger.Warn("non-success HTTP status", "slot", ep.Slot, "status", resp.StatusCode, "url", ep.URL)
		return f.fail(rec, &StatusError{URL: ep.URL, StatusCode: resp.StatusCode, Status: resp.Status})
	}

	if f.cfg.ValidateJSON && !json.Valid(body) {
		return f.fail(rec, fmt.Errorf("%s: %w", info.Path, ErrInvalidJSON))
	}

	f.logger.Info("fetched artifact", "slot", ep.Slot, "path", info.Path, "bytes", info.Size)
	return rec, nil
}

func (f *Fetcher) fail(rec types.FetchRecord, err error) (types.FetchRecord, error) {
	err = fmt.Errorf("fetching %s: %w", rec.Slot, err)
	rec.Error = err.Error()
	return rec, err
}
