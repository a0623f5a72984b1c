// Package makelist renders the CMakeLists.txt of a pybind11 extension module.
package makelist

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/mod/semver"
)

// FileName is the project description cmake reads from the source directory.
const FileName = "CMakeLists.txt"

const (
	DefaultCMakeMinimum = "3.15"
	DefaultCXXStandard  = "17"
	DefaultSource       = "main.cpp"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

// Params describes the generated project.
type Params struct {
	Module       string   // pybind11 module and cmake project name
	Sources      []string // C++ sources, relative to the project directory
	Python       string   // Python3_EXECUTABLE; omitted when empty
	CMakeMinimum string
	CXXStandard  string
}

// withDefaults fills unset fields.
func (p Params) withDefaults() Params {
	if len(p.Sources) == 0 {
		p.Sources = []string{DefaultSource}
	}
	if p.CMakeMinimum == "" {
		p.CMakeMinimum = DefaultCMakeMinimum
	}
	if p.CXXStandard == "" {
		p.CXXStandard = DefaultCXXStandard
	}
	return p
}

// Validate reports the first problem with p after defaults are applied.
func (p Params) Validate() error {
	p = p.withDefaults()
	if p.Module == "" {
		return errors.New("module name is required")
	}
	if strings.ContainsAny(p.Module, " \t\r\n()\"") {
		return fmt.Errorf("invalid module name %q", p.Module)
	}
	for _, src := range p.Sources {
		if strings.TrimSpace(src) == "" {
			return errors.New("empty source file name")
		}
		if strings.ContainsAny(src, " \t\r\n()\"") {
			return fmt.Errorf("invalid source file name %q", src)
		}
	}
	if !semver.IsValid("v" + p.CMakeMinimum) {
		return fmt.Errorf("invalid cmake minimum version %q", p.CMakeMinimum)
	}
	if strings.ContainsAny(p.CXXStandard, " \t\r\n()") {
		return fmt.Errorf("invalid C++ standard %q", p.CXXStandard)
	}
	return nil
}

// Render returns the CMakeLists.txt content for p.
func Render(p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	t, err := loadTemplate()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, p.withDefaults()); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteIfMissing writes dir/CMakeLists.txt unless it already exists.
// It reports whether a file was written.
func WriteIfMissing(dir string, p Params) (bool, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	content, err := Render(p)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return true, nil
}

func loadTemplate() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = template.New("CMakeLists.txt.tmpl").
			Funcs(sprig.TxtFuncMap()).
			ParseFS(templateFS, "templates/CMakeLists.txt.tmpl")
	})
	return tmpl, tmplErr
}
