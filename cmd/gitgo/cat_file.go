package main

import (
	"io"

	"github.com/mbranch/gitgo"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCatFileCmd(g *globalFlags) *cobra.Command {
	var print bool

	cmd := &cobra.Command{
		Use:   "cat-file <oid>",
		Short: "Write an object's payload to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !print {
				return xerrors.New("cat-file: -p is required")
			}
			return catFileCmd(cmd.OutOrStdout(), g, args[0])
		},
	}
	cmd.Flags().BoolVarP(&print, "print", "p", false, "pretty-print the object's payload")
	return cmd
}

func catFileCmd(out io.Writer, g *globalFlags, oidHex string) error {
	oid, err := ginternals.NewOidFromHex(oidHex)
	if err != nil {
		return xerrors.Errorf("cat-file: %s: %w", oidHex, err)
	}

	r, err := gitgo.Open(g.root())
	if err != nil {
		return xerrors.Errorf("cat-file: %w", err)
	}

	o, err := r.Backend.Object(oid)
	if err != nil {
		return xerrors.Errorf("cat-file: %w", err)
	}

	_, err = out.Write(o.Bytes())
	return err
}
