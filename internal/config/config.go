// Package config loads the optional buildproj.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goplus/buildproj/buildtools"
	"github.com/goplus/buildproj/internal/makelist"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up in the working directory.
const FileName = "buildproj.yaml"

// Config is the buildproj.yaml project configuration.
type Config struct {
	Toolchain    string   `yaml:"toolchain,omitempty"`
	Module       string   `yaml:"module,omitempty"`
	Sources      []string `yaml:"source,omitempty"`
	Python       string   `yaml:"python,omitempty"`
	CMakeMinimum string   `yaml:"cmake_minimum,omitempty"`
	CXXStandard  string   `yaml:"cxx_standard,omitempty"`
	Use          []string `yaml:"use,omitempty"`
	Clean        *bool    `yaml:"clean,omitempty"`
}

// Default returns the configuration used when no project file exists.
func Default() Config {
	clean := true
	return Config{
		Toolchain:    "msvc",
		Sources:      []string{makelist.DefaultSource},
		CMakeMinimum: makelist.DefaultCMakeMinimum,
		CXXStandard:  makelist.DefaultCXXStandard,
		Clean:        &clean,
	}
}

// Load reads path over Default. A missing file is not an error.
// Relative "use" entries are resolved against the file's directory and
// made absolute, so they stay valid whatever directory cmake runs in.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, root := range cfg.Use {
		if !filepath.IsAbs(root) {
			root = filepath.Join(base, root)
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return cfg, fmt.Errorf("%s: use %q: %w", path, cfg.Use[i], err)
		}
		cfg.Use[i] = abs
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that do not depend on whether a
// CMakeLists.txt will be generated.
func (c Config) Validate() error {
	if _, err := buildtools.ParseToolchain(c.Toolchain); err != nil {
		return err
	}
	return nil
}

// CleanFirst reports whether a stale build directory is removed first.
func (c Config) CleanFirst() bool {
	return c.Clean == nil || *c.Clean
}

// MakeList returns the CMakeLists.txt parameters of c.
func (c Config) MakeList() makelist.Params {
	return makelist.Params{
		Module:       c.Module,
		Sources:      c.Sources,
		Python:       c.Python,
		CMakeMinimum: c.CMakeMinimum,
		CXXStandard:  c.CXXStandard,
	}
}
