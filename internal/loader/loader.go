// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader invokes the external catalog loader as a child process.
// It builds the loader's argument contract, echoes the command, runs it and
// reports the exit status. Loader failures are not interpreted here.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
)

var (
	// ErrLoaderNotFound is returned when the loader program cannot be found
	// or is not executable.
	ErrLoaderNotFound = errors.New("loader executable not found")

	// ErrConfigMissing is returned by CheckConfig when the loader
	// configuration file does not exist.
	ErrConfigMissing = errors.New("loader configuration file missing")
)

// Result is the outcome of a loader run.
type Result struct {
	// ExitCode is the child's exit status. A child killed by a signal
	// reports 1.
	ExitCode int

	// Output is the child's stdout and stderr, interleaved as written.
	Output []byte
}

// Invoker runs the external loader. Tests substitute a fake.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) (Result, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

var defaultExec = &osExecutor{}

// ProcessInvoker runs the loader with os/exec, streaming its output to the
// configured writers while also capturing it.
type ProcessInvoker struct {
	stdout io.Writer
	stderr io.Writer
	exec   executor
}

// NewProcessInvoker returns an invoker that forwards child output to stdout
// and stderr. Nil writers discard.
func NewProcessInvoker(stdout, stderr io.Writer) *ProcessInvoker {
	return newProcessInvoker(defaultExec, stdout, stderr)
}

func newProcessInvoker(exec executor, stdout, stderr io.Writer) *ProcessInvoker {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &ProcessInvoker{stdout: stdout, stderr: stderr, exec: exec}
}

// Invoke runs inv and returns the child's exit status. The error is non-nil
// only when the child could not be started or was cancelled; a non-zero
// exit is reported through Result.ExitCode.
func (p *ProcessInvoker) Invoke(ctx context.Context, inv Invocation) (Result, error) {
	argv := inv.Argv()
	if _, err := p.exec.LookPath(argv[0]); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %s: %v", ErrLoaderNotFound, argv[0], err)
	}

	var captured lockedBuffer
	code, err := p.exec.Run(ctx, argv[0], argv[1:],
		io.MultiWriter(p.stdout, &captured),
		io.MultiWriter(p.stderr, &captured))
	if err != nil {
		return Result{ExitCode: -1, Output: captured.Bytes()}, fmt.Errorf("running loader %s: %w", argv[0], err)
	}
	return Result{ExitCode: code, Output: captured.Bytes()}, nil
}

// CheckConfig verifies that the loader configuration file exists and is a
// regular file. Its content belongs to the loader and is not parsed.
func CheckConfig(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigMissing, path)
	}
	if err != nil {
		return fmt.Errorf("checking loader config %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("loader config %s is not a regular file", path)
	}
	return nil
}

// lockedBuffer serialises writes from the stdout and stderr copiers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
