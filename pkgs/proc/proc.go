// Package proc runs external commands and reports only their exit status.
package proc

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/sys/execabs"
)

// Command is a program and its argument vector. Arguments are never
// interpreted by a shell.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory; empty means the caller's
	Env  []string // full environment; nil means the caller's
}

// String renders the command for display. Arguments containing whitespace
// are double-quoted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n") {
		return `"` + s + `"`
	}
	return s
}

// Runner runs a command to completion and returns its exit status.
// The error is non-nil only if the process could not be started or waited on.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (int, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (int, error) {
	return f(ctx, cmd)
}

// ExecRunner spawns real processes. Nil writers inherit the caller's
// stdout and stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Default is the runner used when none is configured.
var Default Runner = &ExecRunner{}

// Run starts cmd and blocks until it exits or ctx is done.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (int, error) {
	c := execabs.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = os.Stdin
	c.Stdout = r.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *execabs.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// killed by a signal, usually ctx cancellation
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		return -1, err
	}
	return -1, err
}

// MergeEnv overlays override on top of a KEY=VALUE environment and
// returns the result sorted by key.
func MergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(override))
	keys := make([]string, 0, len(base)+len(override))
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			keys = append(keys, k)
		}
		envMap[k] = v
	}
	for k, v := range override {
		if _, seen := envMap[k]; !seen {
			keys = append(keys, k)
		}
		envMap[k] = v
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
