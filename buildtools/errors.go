package buildtools

// ConfigurationError reports that the configure step did not exit with
// status zero. Code is -1 when cmake could not be run at all.
type ConfigurationError struct {
	Command string
	Code    int
	Err     error
}

func (e *ConfigurationError) Error() string {
	return "cmake configuration failed"
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// BuildError reports that the build step did not exit with status zero.
type BuildError struct {
	Target  string
	Command string
	Code    int
	Err     error
}

func (e *BuildError) Error() string {
	return "project build failed"
}

func (e *BuildError) Unwrap() error { return e.Err }
