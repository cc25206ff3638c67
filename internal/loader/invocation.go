// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"strings"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// Invocation is the command line handed to the external loader. It is
// rebuilt for every run and never persisted.
type Invocation struct {
	// Interpreter, when set, precedes Executable in argv.
	Interpreter string
	Executable  string
	ConfigPath  string
	// Source is the -s locator, normally SourceLocator(artifactPath).
	Source    string
	LogLevel  string
	ExtraArgs []string
}

// NewInvocation builds the invocation for an artifact on local disk.
func NewInvocation(cfg types.LoaderConfig, artifactPath string) Invocation {
	return Invocation{
		Interpreter: cfg.Interpreter,
		Executable:  cfg.Executable,
		ConfigPath:  cfg.ConfigPath,
		Source:      SourceLocator(artifactPath),
		LogLevel:    cfg.LogLevel,
		ExtraArgs:   append([]string(nil), cfg.ExtraArgs...),
	}
}

// Args returns the loader arguments: -c <config> -s <source> -l <level>,
// followed by any extra arguments. -l is omitted when LogLevel is empty so
// the loader falls back to its own default.
func (i Invocation) Args() []string {
	args := []string{"-c", i.ConfigPath, "-s", i.Source}
	if i.LogLevel != "" {
		args = append(args, "-l", i.LogLevel)
	}
	return append(args, i.ExtraArgs...)
}

// Argv returns the full argument vector, program first.
func (i Invocation) Argv() []string {
	var argv []string
	if i.Interpreter != "" {
		argv = append(argv, i.Interpreter)
	}
	argv = append(argv, i.Executable)
	return append(argv, i.Args()...)
}

// CommandLine renders Argv for the diagnostic echo. Arguments containing
// shell metacharacters are single-quoted so the line can be pasted back
// into a shell.
func (i Invocation) CommandLine() string {
	argv := i.Argv()
	parts := make([]string, len(argv))
	for n, a := range argv {
		parts[n] = shellQuote(a)
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[](){}<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
