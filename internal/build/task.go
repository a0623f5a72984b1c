package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/buildproj/buildtools"
	"github.com/goplus/buildproj/internal/config"
	"github.com/goplus/buildproj/internal/makelist"
	"github.com/qiniu/x/log"
	"golang.org/x/sys/execabs"
)

// ErrArgument reports a missing or invalid task argument.
var ErrArgument = errors.New("invalid argument")

// Task prepares a project directory and builds its extension module.
type Task struct {
	Dir     string // project directory; empty means the working directory
	Config  config.Config
	Invoker *buildtools.Invoker // nil means a default Invoker
}

// Run removes a stale build directory, writes CMakeLists.txt when the
// project has none, and runs the configured toolchain with the module name
// as target.
func (t *Task) Run(ctx context.Context) error {
	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	cfg := t.Config

	toolchain, err := buildtools.ParseToolchain(cfg.Toolchain)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArgument, err)
	}
	if cfg.Module == "" {
		return fmt.Errorf("%w: module name is required", ErrArgument)
	}

	if cfg.CleanFirst() {
		buildDir := filepath.Join(dir, buildtools.BuildDir)
		if _, err := os.Stat(buildDir); err == nil {
			log.Infof("removing %s", buildDir)
			if err := os.RemoveAll(buildDir); err != nil {
				return fmt.Errorf("failed to remove build directory: %w", err)
			}
		}
	}

	if _, err := os.Stat(filepath.Join(dir, makelist.FileName)); errors.Is(err, os.ErrNotExist) {
		p := cfg.MakeList()
		if p.Python == "" {
			p.Python = DefaultPython()
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrArgument, err)
		}
		if _, err := makelist.WriteIfMissing(dir, p); err != nil {
			return err
		}
		log.Infof("generated %s for module %s", makelist.FileName, p.Module)
	}

	inv := buildtools.Invoker{}
	if t.Invoker != nil {
		inv = *t.Invoker
	}
	if inv.Dir == "" {
		inv.Dir = t.Dir
	}
	if len(inv.Use) == 0 {
		inv.Use = cfg.Use
	}
	return inv.Run(ctx, toolchain, cfg.Module)
}

// DefaultPython returns the absolute, slash-separated path of the first
// python3 or python found on PATH, or "" if there is none.
func DefaultPython() string {
	for _, name := range []string{"python3", "python"} {
		path, err := execabs.LookPath(name)
		if err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return filepath.ToSlash(path)
	}
	return ""
}
