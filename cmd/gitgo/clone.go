package main

import (
	"fmt"
	"io"

	"github.com/mbranch/gitgo"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCloneCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <url> <dir>",
		Short: "Clone a remote repository over smart-HTTP v2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cloneCmd(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func cloneCmd(out io.Writer, url, dir string) error {
	if _, err := gitgo.Clone(url, dir); err != nil {
		return xerrors.Errorf("clone: %w", err)
	}
	_, err := fmt.Fprintf(out, "Cloned into %s\n", dir)
	return err
}
