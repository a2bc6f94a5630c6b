//go:build !( js || wasm)

package main

import (
	"os"

	"github.com/cottand/dltype/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "dltype [subcommand]",
	Short:        "dltype\n type inference and overload resolution for Datalog programs",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.NewCheckCmd())
	rootCmd.AddCommand(cmd.NewAnnotateCmd())
}
