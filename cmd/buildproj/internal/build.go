package internal

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/buildproj/internal/build"
	"github.com/goplus/buildproj/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildMethod  string
	buildModule  string
	buildSources []string
	buildPython  string
	buildConfig  string
	buildDir     string
	buildNoClean bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the extension module of the current project",
	Long: `Build removes a stale build directory, writes CMakeLists.txt when the
project has none, and then configures and builds the module with the selected
toolchain. Flags override the values of buildproj.yaml.`,
	Args: checkArgs(cobra.NoArgs),
	RunE: runBuild,
}

func init() {
	flags := buildCmd.Flags()
	flags.StringVarP(&buildMethod, "build-method", "b", "msvc", "Toolchain to use (msvc or msys2)")
	flags.StringVar(&buildModule, "module-name", "", "Name of the module, also the build target")
	flags.StringSliceVar(&buildSources, "cpp-file", []string{"main.cpp"}, "C++ source files of the module")
	flags.StringVar(&buildPython, "python-executable", "", "Path to the Python executable (default: python3 on PATH)")
	flags.StringVarP(&buildConfig, "config", "c", config.FileName, "Project file, relative to the project directory")
	flags.StringVarP(&buildDir, "dir", "C", "", "Project directory (default: current directory)")
	flags.BoolVar(&buildNoClean, "no-clean", false, "Keep an existing build directory")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfgPath := buildConfig
	if !filepath.IsAbs(cfgPath) && buildDir != "" {
		cfgPath = filepath.Join(buildDir, cfgPath)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("%w: %v", build.ErrArgument, err)
	}

	flags := cmd.Flags()
	if flags.Changed("build-method") {
		cfg.Toolchain = buildMethod
	}
	if flags.Changed("module-name") {
		cfg.Module = buildModule
	}
	if flags.Changed("cpp-file") {
		cfg.Sources = buildSources
	}
	if flags.Changed("python-executable") {
		cfg.Python = buildPython
	}
	if buildNoClean {
		clean := false
		cfg.Clean = &clean
	}

	task := &build.Task{Dir: buildDir, Config: cfg, Invoker: newInvoker()}
	return task.Run(cmd.Context())
}
