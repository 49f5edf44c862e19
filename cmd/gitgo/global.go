package main

import (
	"os"

	"github.com/mbranch/gitgo/internal/pathutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags carries the flags shared by every subcommand.
type globalFlags struct {
	// C is the directory to run as if gitgo had been started in,
	// mirroring git's own -C.
	C pflag.Value
}

func newGlobalFlags(cmd *cobra.Command) *globalFlags {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	g := &globalFlags{
		C: pathutil.NewDirPathFlagWithDefault(cwd),
	}
	cmd.PersistentFlags().VarP(g.C, "C", "C", "run as if gitgo was started in this directory")
	return g
}

// root returns the repository root the command should operate against.
func (g *globalFlags) root() string {
	return g.C.String()
}
