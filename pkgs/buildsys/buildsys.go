package buildsys

import "context"

// BuildSystem captures shared capabilities of build helpers (CMake, etc).
// It keeps the common lifecycle and env setup; implementations add their own extras.
type BuildSystem interface {
	// Use makes a dependency installed at root visible to the build.
	Use(root string)

	// Basic paths.
	Source(dir string)

	// Environment helper.
	Env(key, val string)

	// Lifecycle.
	Configure(ctx context.Context, args ...string) error
	Build(ctx context.Context, args ...string) error

	// Where artifacts land.
	OutputDir() string
}
