package internal

import (
	"github.com/goplus/buildproj/buildtools"
	"github.com/spf13/cobra"
)

func init() {
	for _, t := range buildtools.Toolchains() {
		rootCmd.AddCommand(newToolchainCmd(t))
	}
}

// newToolchainCmd returns the thin "<toolchain> <target>" command. It runs
// configure and build in the working directory without cleaning or
// generating anything first.
func newToolchainCmd(t buildtools.Toolchain) *cobra.Command {
	p := t.Profile()
	return &cobra.Command{
		Use:   p.Name + " <target>",
		Short: "Configure with " + p.Generator + " and build a target",
		Long: `Run "cmake -S . -B build -G ` + p.Generator + `" followed by
"cmake --build build --config Release --target <target>" in the current directory.`,
		Args: checkArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newInvoker().Run(cmd.Context(), t, args[0])
		},
	}
}
