package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mbranch/gitgo"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newHashObjectCmd(g *globalFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <path>",
		Short: "Store a file as a blob and print its OID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !write {
				return xerrors.New("hash-object: -w is required")
			}
			return hashObjectCmd(cmd.OutOrStdout(), g, args[0])
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object database")
	return cmd
}

func hashObjectCmd(out io.Writer, g *globalFlags, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Errorf("hash-object: %w", err)
	}

	r, err := gitgo.Open(g.root())
	if err != nil {
		return xerrors.Errorf("hash-object: %w", err)
	}

	blob := object.NewBlobFromContent(content)
	oid, err := r.Backend.WriteObject(blob.ToObject())
	if err != nil {
		return xerrors.Errorf("hash-object: %w", err)
	}

	_, err = fmt.Fprintln(out, oid)
	return err
}
