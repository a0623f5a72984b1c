package buildtools

import (
	"context"
	"strings"

	"github.com/goplus/buildproj/pkgs/buildsys"
	"github.com/goplus/buildproj/pkgs/proc"
)

// mockRunner records every command and answers with scripted exit codes.
type mockRunner struct {
	codes  []int // exit code per call; missing entries exit 0
	errs   []error
	issued []proc.Command
}

func (m *mockRunner) Run(ctx context.Context, cmd proc.Command) (int, error) {
	i := len(m.issued)
	m.issued = append(m.issued, cmd)
	if i < len(m.errs) && m.errs[i] != nil {
		return -1, m.errs[i]
	}
	if i < len(m.codes) {
		return m.codes[i], nil
	}
	return 0, nil
}

func (m *mockRunner) commands() []string {
	out := make([]string, len(m.issued))
	for i, cmd := range m.issued {
		out[i] = cmd.String()
	}
	return out
}

// fakeBuildSystem is a buildsys.BuildSystem that is not backed by cmake.
type fakeBuildSystem struct {
	configureErr error
	buildErr     error
	steps        []string
}

var _ buildsys.BuildSystem = (*fakeBuildSystem)(nil)

func (f *fakeBuildSystem) Use(root string)     {}
func (f *fakeBuildSystem) Source(dir string)   {}
func (f *fakeBuildSystem) Env(key, val string) {}
func (f *fakeBuildSystem) OutputDir() string   { return "out" }

func (f *fakeBuildSystem) Configure(ctx context.Context, args ...string) error {
	f.steps = append(f.steps, "configure")
	return f.configureErr
}

func (f *fakeBuildSystem) Build(ctx context.Context, args ...string) error {
	f.steps = append(f.steps, "build "+strings.Join(args, " "))
	return f.buildErr
}
