package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitgo",
		Short:         "A minimal, pure-Go git",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	g := newGlobalFlags(root)

	root.AddCommand(
		newInitCmd(g),
		newCatFileCmd(g),
		newHashObjectCmd(g),
		newLsTreeCmd(g),
		newWriteTreeCmd(g),
		newCommitTreeCmd(g),
		newCloneCmd(g),
	)
	return root
}
