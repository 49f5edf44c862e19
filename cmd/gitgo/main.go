// Command gitgo is a small, pure-Go subset of git: a handful of
// plumbing verbs (init, cat-file, hash-object, ls-tree, write-tree,
// commit-tree) over the object store, plus clone over smart-HTTP v2.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
