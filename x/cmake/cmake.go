// Package cmake wraps the cmake configure/build workflow.
package cmake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/goplus/buildproj/pkgs/buildsys"
	"github.com/goplus/buildproj/pkgs/proc"
)

// Step names a phase of the cmake workflow.
type Step string

const (
	StepConfigure Step = "configure"
	StepBuild     Step = "build"
)

// ExitError reports a cmake step that ran but exited non-zero.
type ExitError struct {
	Step    Step
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("cmake %s exited with status %d: %s", e.Step, e.Code, e.Command)
}

type defineValue struct {
	value    string
	typeName string
}

// CMake drives CMake-based builds.
type CMake struct {
	workDir   string
	sourceDir string
	buildDir  string
	generator string
	arch      string
	config    string
	toolchain string
	defines   map[string]defineValue
	env       map[string]string
	runner    proc.Runner
	trace     func(Step, proc.Command)
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   make(map[string]defineValue),
		env:       make(map[string]string),
	}
}

// Source overrides the source directory.
func (c *CMake) Source(dir string) { c.sourceDir = dir }

// WorkDir sets the directory cmake runs in; relative source and build
// directories are resolved against it. Empty means the caller's.
func (c *CMake) WorkDir(dir string) *CMake {
	c.workDir = dir
	return c
}

// Generator sets the CMake generator (e.g. "Ninja", "Visual Studio 17 2022").
func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

// Arch sets the generator platform passed with -A (e.g. "x64").
func (c *CMake) Arch(name string) *CMake {
	c.arch = name
	return c
}

// Config sets the configuration passed to "cmake --build --config".
func (c *CMake) Config(name string) *CMake {
	c.config = name
	return c
}

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) *CMake {
	c.toolchain = path
	return c
}

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) *CMake {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
	return c
}

// DefineRaw adds an untyped -D<key>=<value> definition.
func (c *CMake) DefineRaw(key, value string) *CMake {
	c.defines[key] = defineValue{value: value}
	return c
}

// Env sets an environment variable for cmake child processes only.
func (c *CMake) Env(key, value string) {
	c.env[key] = value
}

// Runner replaces the process runner. A nil runner restores proc.Default.
func (c *CMake) Runner(r proc.Runner) *CMake {
	c.runner = r
	return c
}

// Trace registers fn to be called with each command right before it runs.
func (c *CMake) Trace(fn func(step Step, cmd proc.Command)) *CMake {
	c.trace = fn
	return c
}

// Use makes headers, libraries and package configs of a dependency
// installed at root visible to the cmake child processes. A relative root
// is taken relative to the work directory.
func (c *CMake) Use(root string) {
	if !filepath.IsAbs(root) {
		root = filepath.Join(c.workDir, root)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if isDir(pkgconfigDir) {
		c.prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	c.prependPath("CMAKE_PREFIX_PATH", root)
	if isDir(includeDir) {
		c.prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if isDir(libDir) {
		c.prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if isDir(includeDir) {
			c.prependPath("INCLUDE", includeDir)
		}
		if isDir(libDir) {
			c.prependPath("LIB", libDir)
		}
	} else {
		if isDir(includeDir) {
			c.appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if isDir(libDir) {
			c.appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// ConfigureCommand returns the "cmake -S <source> -B <build>" command with
// all configured options. Extra args are appended at the end.
func (c *CMake) ConfigureCommand(args ...string) proc.Command {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.arch != "" {
		cmakeArgs = append(cmakeArgs, "-A", c.arch)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.command(cmakeArgs)
}

// BuildCommand returns the "cmake --build <build>" command.
func (c *CMake) BuildCommand(args ...string) proc.Command {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.config != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.config)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.command(cmakeArgs)
}

// Configure runs the configure step.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	return c.run(ctx, StepConfigure, c.ConfigureCommand(args...))
}

// Build runs the build step.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	return c.run(ctx, StepBuild, c.BuildCommand(args...))
}

// OutputDir returns the build directory.
func (c *CMake) OutputDir() string {
	return c.buildDir
}

func (c *CMake) command(args []string) proc.Command {
	cmd := proc.Command{Name: "cmake", Args: args, Dir: c.workDir}
	if len(c.env) > 0 {
		cmd.Env = proc.MergeEnv(os.Environ(), c.env)
	}
	return cmd
}

func (c *CMake) run(ctx context.Context, step Step, cmd proc.Command) error {
	r := c.runner
	if r == nil {
		r = proc.Default
	}
	if c.trace != nil {
		c.trace(step, cmd)
	}
	code, err := r.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("cmake %s: %w", step, err)
	}
	if code != 0 {
		return &ExitError{Step: step, Command: cmd.String(), Code: code}
	}
	return nil
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		if d.typeName != "" {
			args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
			continue
		}
		args = append(args, "-D"+k+"="+d.value)
	}
	return args
}

// prependPath prepends value to a PATH-style variable, starting from the
// caller's environment the first time the key is touched.
func (c *CMake) prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := c.lookupEnv(key); cur != "" {
		value += sep + cur
	}
	c.env[key] = value
}

// appendFlag appends a space-separated flag to a variable.
func (c *CMake) appendFlag(key, flag string) {
	if cur := c.lookupEnv(key); cur != "" {
		flag = strings.TrimSpace(cur + " " + flag)
	}
	c.env[key] = flag
}

func (c *CMake) lookupEnv(key string) string {
	if v, ok := c.env[key]; ok {
		return v
	}
	return os.Getenv(key)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
