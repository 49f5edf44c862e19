package main

import (
	"fmt"
	"io"

	"github.com/mbranch/gitgo"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newLsTreeCmd(g *globalFlags) *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree <oid>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lsTreeCmd(cmd.OutOrStdout(), g, args[0], nameOnly)
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print only entry names")
	return cmd
}

func lsTreeCmd(out io.Writer, g *globalFlags, oidHex string, nameOnly bool) error {
	oid, err := ginternals.NewOidFromHex(oidHex)
	if err != nil {
		return xerrors.Errorf("ls-tree: %s: %w", oidHex, err)
	}

	r, err := gitgo.Open(g.root())
	if err != nil {
		return xerrors.Errorf("ls-tree: %w", err)
	}

	o, err := r.Backend.Object(oid)
	if err != nil {
		return xerrors.Errorf("ls-tree: %w", err)
	}
	tree, err := o.AsTree()
	if err != nil {
		return xerrors.Errorf("ls-tree: %w", err)
	}

	for _, entry := range tree.Entries() {
		if nameOnly {
			if _, err := fmt.Fprintln(out, entry.Name); err != nil {
				return err
			}
			continue
		}
		_, err := fmt.Fprintf(out, "%06o %s %s\t%s\n", entry.Mode, entry.Mode.ObjectType(), entry.ID, entry.Name)
		if err != nil {
			return err
		}
	}
	return nil
}
