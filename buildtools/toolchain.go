package buildtools

import (
	"fmt"
	"strings"
)

// Toolchain selects one of the fixed configure profiles.
type Toolchain int

const (
	MSVC Toolchain = iota
	MSYS2
)

// Profile is the fixed configuration of a toolchain variant.
type Profile struct {
	Name      string
	Generator string
	Arch      string // generator platform; empty for single-platform generators
}

var profiles = [...]Profile{
	MSVC:  {Name: "msvc", Generator: "Visual Studio 17 2022", Arch: "x64"},
	MSYS2: {Name: "msys2", Generator: "Ninja"},
}

// Options passed to every configure step, whatever the toolchain.
const (
	CXXStandard  = "17"
	SourceDir    = "."
	BuildDir     = "build"
	BuildConfig  = "Release"
	pythonOption = "PYBIND11_FINDPYTHON"
	cxxOption    = "CMAKE_CXX_STANDARD"
)

// Toolchains lists every known variant.
func Toolchains() []Toolchain {
	return []Toolchain{MSVC, MSYS2}
}

// Profile returns the fixed configuration of t.
func (t Toolchain) Profile() Profile {
	if t < 0 || int(t) >= len(profiles) {
		return Profile{}
	}
	return profiles[t]
}

func (t Toolchain) String() string {
	if p := t.Profile(); p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Toolchain(%d)", int(t))
}

// ParseToolchain maps a name such as "msvc" or "MSYS2" to its Toolchain.
func ParseToolchain(name string) (Toolchain, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Toolchains() {
		if t.Profile().Name == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown toolchain %q, choose msvc or msys2", name)
}
