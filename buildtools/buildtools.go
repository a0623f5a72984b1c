// Package buildtools configures and builds a pybind11 extension module with
// CMake, using one of two fixed toolchain profiles.
//
// Each call runs "cmake -S . -B build" with the profile's generator and then
// "cmake --build build --config Release --target <target>" in the current
// working directory. Both steps block until the child exits; their output
// goes straight to the caller's stdout and stderr.
//
// Calls share the build directory of the working directory. Callers that
// build the same project from several goroutines must serialize them.
package buildtools

import (
	"context"
	"errors"
	"fmt"

	"github.com/goplus/buildproj/pkgs/buildsys"
	"github.com/goplus/buildproj/pkgs/proc"
	"github.com/goplus/buildproj/x/cmake"
	"github.com/qiniu/x/log"
)

// Invoker runs the configure-then-build sequence.
type Invoker struct {
	// Runner spawns cmake. Nil means proc.Default.
	Runner proc.Runner
	// Log receives diagnostics. Nil means log.Std.
	Log *log.Logger
	// Dir is the project directory cmake runs in. Empty means the caller's
	// working directory.
	Dir string
	// Use lists dependency prefixes made visible to cmake, see cmake.CMake.Use.
	Use []string
}

var defaultInvoker = &Invoker{}

// BuildMSVC configures with Visual Studio 17 2022 (x64) and builds target.
func BuildMSVC(ctx context.Context, target string) error {
	return defaultInvoker.Run(ctx, MSVC, target)
}

// BuildMSYS2 configures with Ninja and builds target.
func BuildMSYS2(ctx context.Context, target string) error {
	return defaultInvoker.Run(ctx, MSYS2, target)
}

// CMake returns the cmake driver set up for toolchain t.
func (inv *Invoker) CMake(t Toolchain) *cmake.CMake {
	p := t.Profile()
	c := cmake.New(SourceDir, BuildDir).
		WorkDir(inv.Dir).
		Generator(p.Generator).
		Arch(p.Arch).
		Config(BuildConfig).
		Runner(inv.Runner)
	c.DefineRaw(pythonOption, "ON")
	c.DefineRaw(cxxOption, CXXStandard)
	for _, root := range inv.Use {
		c.Use(root)
	}
	return c
}

// Run configures the project with toolchain t and then builds target.
// A failed configure step returns *ConfigurationError and the build step is
// never issued; a failed build step returns *BuildError.
//
// target is passed to cmake as a single argument and is not validated.
func (inv *Invoker) Run(ctx context.Context, t Toolchain, target string) error {
	if t.Profile().Name == "" {
		return fmt.Errorf("buildtools: unknown toolchain %v", t)
	}
	logger := inv.logger()
	var bs buildsys.BuildSystem = inv.CMake(t).Trace(func(step cmake.Step, cmd proc.Command) {
		logger.Debugf("%s: %v", step, cmd)
	})
	return runSteps(ctx, bs, target, logger)
}

// runSteps configures bs and then builds target, mapping step failures to
// *ConfigurationError and *BuildError.
func runSteps(ctx context.Context, bs buildsys.BuildSystem, target string, logger *log.Logger) error {
	if err := bs.Configure(ctx); err != nil {
		logger.Errorf("error running the cmake configure command")
		cerr := &ConfigurationError{Code: -1, Err: err}
		var exitErr *cmake.ExitError
		if errors.As(err, &exitErr) {
			cerr = &ConfigurationError{Command: exitErr.Command, Code: exitErr.Code}
		}
		return cerr
	}

	if err := bs.Build(ctx, "--target", target); err != nil {
		logger.Errorf("error building the project")
		berr := &BuildError{Target: target, Code: -1, Err: err}
		var exitErr *cmake.ExitError
		if errors.As(err, &exitErr) {
			berr = &BuildError{Target: target, Command: exitErr.Command, Code: exitErr.Code}
		}
		return berr
	}
	return nil
}

func (inv *Invoker) logger() *log.Logger {
	if inv.Log != nil {
		return inv.Log
	}
	return log.Std
}
