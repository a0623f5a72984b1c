package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goplus/buildproj/buildtools"
	"github.com/goplus/buildproj/internal/build"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

// Exit codes of the buildproj command.
const (
	ExitSuccess     = 0
	ExitFailure     = 1 // build failure or any other error
	ExitConfigError = 2 // cmake configuration failure or bad arguments
)

var verbose bool

// errUsage is returned after help was printed for a bare invocation.
var errUsage = errors.New("no command given")

// newInvoker returns the invoker used by every command.
var newInvoker = func() *buildtools.Invoker {
	return &buildtools.Invoker{}
}

var rootCmd = &cobra.Command{
	Use:   "buildproj",
	Short: "buildproj builds pybind11 extension modules with CMake",
	Long: `buildproj configures and builds a pybind11 extension module with CMake,
using either the Visual Studio 17 2022 generator (msvc) or Ninja (msys2).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          checkArgs(cobra.NoArgs),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SetOut(cmd.ErrOrStderr())
		cmd.Help()
		return errUsage
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every cmake command before running it")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", build.ErrArgument, err)
	})
}

// checkArgs makes positional argument errors exit like other bad arguments.
func checkArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", build.ErrArgument, err)
		}
		return nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errUsage) {
		log.Error(err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var cerr *buildtools.ConfigurationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cerr), errors.Is(err, build.ErrArgument):
		return ExitConfigError
	default:
		return ExitFailure
	}
}
