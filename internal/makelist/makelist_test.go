package makelist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got, err := Render(Params{
		Module: "fastmath",
		Python: "C:/Python312/python.exe",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"cmake_minimum_required(VERSION 3.15)\n",
		"project(fastmath LANGUAGES CXX)\n",
		"set(CMAKE_CXX_STANDARD 17)\n",
		"set(CMAKE_CXX_STANDARD_REQUIRED ON)\n",
		"set(PYBIND11_FINDPYTHON ON)\n",
		`set(Python3_EXECUTABLE "C:/Python312/python.exe" CACHE FILEPATH "Path to Python executable")`,
		"find_package(Python3 COMPONENTS Interpreter Development REQUIRED)\n",
		"find_package(pybind11 CONFIG REQUIRED)\n",
		"pybind11_add_module(fastmath main.cpp)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render missing %q\n%s", want, got)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	got, err := Render(Params{
		Module:       "geo",
		Sources:      []string{"src/geo.cpp", "src/bind.cpp"},
		CMakeMinimum: "3.20.1",
		CXXStandard:  "20",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"cmake_minimum_required(VERSION 3.20.1)",
		"set(CMAKE_CXX_STANDARD 20)",
		"pybind11_add_module(geo src/geo.cpp src/bind.cpp)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "Python3_EXECUTABLE") {
		t.Errorf("Render without python should omit Python3_EXECUTABLE\n%s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"ok", Params{Module: "m"}, false},
		{"no module", Params{}, true},
		{"space in module", Params{Module: "a b"}, true},
		{"empty source", Params{Module: "m", Sources: []string{" "}}, true},
		{"space in source", Params{Module: "m", Sources: []string{"my file.cpp"}}, true},
		{"paren in source", Params{Module: "m", Sources: []string{"a).cpp"}}, true},
		{"nested source", Params{Module: "m", Sources: []string{"src/a.cpp"}}, false},
		{"bad version", Params{Module: "m", CMakeMinimum: "latest"}, true},
		{"major only", Params{Module: "m", CMakeMinimum: "3"}, false},
		{"bad standard", Params{Module: "m", CXXStandard: "17)"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteIfMissing(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteIfMissing(dir, Params{Module: "m"})
	if err != nil || !written {
		t.Fatalf("WriteIfMissing = %v, %v; want true, nil", written, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "pybind11_add_module(m main.cpp)") {
		t.Errorf("unexpected content:\n%s", data)
	}
}

func TestWriteIfMissingKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("project(custom)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// module name is not needed when nothing is generated
	written, err := WriteIfMissing(dir, Params{})
	if err != nil || written {
		t.Fatalf("WriteIfMissing = %v, %v; want false, nil", written, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "project(custom)\n" {
		t.Errorf("existing file changed: %q", data)
	}
}
