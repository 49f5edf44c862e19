package main

import (
	"fmt"
	"io"

	"github.com/mbranch/gitgo"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newWriteTreeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Materialize the working tree into a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTreeCmd(cmd.OutOrStdout(), g)
		},
	}
}

func writeTreeCmd(out io.Writer, g *globalFlags) error {
	r, err := gitgo.Open(g.root())
	if err != nil {
		return xerrors.Errorf("write-tree: %w", err)
	}

	oid, err := r.WriteTree()
	if err != nil {
		return xerrors.Errorf("write-tree: %w", err)
	}

	_, err = fmt.Fprintln(out, oid)
	return err
}
