package main

import (
	"fmt"
	"io"

	"github.com/mbranch/gitgo"
	"github.com/mbranch/gitgo/ginternals"
	"github.com/mbranch/gitgo/ginternals/object"
	"github.com/mbranch/gitgo/internal/env"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func newCommitTreeCmd(g *globalFlags) *cobra.Command {
	var parents []string
	var message string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree>",
		Short: "Build a commit object over an existing tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return xerrors.New("commit-tree: -m is required")
			}
			return commitTreeCmd(cmd.OutOrStdout(), g, args[0], parents, message)
		},
	}
	cmd.Flags().StringArrayVarP(&parents, "parent", "p", nil, "parent commit OID (may be repeated)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}

func commitTreeCmd(out io.Writer, g *globalFlags, treeHex string, parentHexes []string, message string) error {
	treeID, err := ginternals.NewOidFromHex(treeHex)
	if err != nil {
		return xerrors.Errorf("commit-tree: %s: %w", treeHex, err)
	}

	parentIDs := make([]ginternals.Oid, len(parentHexes))
	for i, p := range parentHexes {
		parentIDs[i], err = ginternals.NewOidFromHex(p)
		if err != nil {
			return xerrors.Errorf("commit-tree: %s: %w", p, err)
		}
	}

	r, err := gitgo.Open(g.root())
	if err != nil {
		return xerrors.Errorf("commit-tree: %w", err)
	}

	oid, err := r.CommitTree(treeID, authorFromEnv(), &object.CommitOptions{
		Message:   message,
		ParentIDs: parentIDs,
	})
	if err != nil {
		return xerrors.Errorf("commit-tree: %w", err)
	}

	_, err = fmt.Fprintln(out, oid)
	return err
}

// authorFromEnv builds a signature from GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL,
// falling back to a generic identity when they're unset, since config
// file parsing is out of scope.
func authorFromEnv() object.Signature {
	e := env.NewFromOs()
	name := e.Get("GIT_AUTHOR_NAME")
	if name == "" {
		name = "gitgo"
	}
	email := e.Get("GIT_AUTHOR_EMAIL")
	if email == "" {
		email = "gitgo@localhost"
	}
	return object.NewSignature(name, email)
}
