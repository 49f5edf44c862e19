package main

import (
	"fmt"
	"io"

	"github.com/mbranch/gitgo"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/spf13/cobra"
)

func newInitCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCmd(cmd.OutOrStdout(), g)
		},
	}
}

func initCmd(out io.Writer, g *globalFlags) error {
	if _, err := gitgo.Init(g.root()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Initialized empty repository in %s\n", ginternals.DotGitPath(g.root()))
	return err
}
