package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdInitAndHashObject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"-C", dir, "init"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Initialized empty repository in")

	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("hi\n"), 0o644))

	root = newRootCmd()
	out = new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"-C", dir, "hash-object", "-w", path})
	require.NoError(t, root.Execute())
	assert.NotEmpty(t, bytes.TrimSpace(out.Bytes()))
}

func TestRootCmdUnknownCommandFails(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetArgs([]string{"not-a-command"})
	root.SilenceUsage = true
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	err := root.Execute()
	require.Error(t, err)
}
