package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbranch/gitgo/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobalFlags(dir string) *globalFlags {
	return &globalFlags{C: pathutil.NewDirPathFlagWithDefault(dir)}
}

func TestInitCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := new(bytes.Buffer)

	require.NoError(t, initCmd(out, testGlobalFlags(dir)))
	assert.Contains(t, out.String(), "Initialized empty repository in")

	_, err := os.Stat(filepath.Join(dir, ".git", "HEAD"))
	require.NoError(t, err)
}

func TestInitCmdFailsIfAlreadyInitialized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))

	err := initCmd(new(bytes.Buffer), testGlobalFlags(dir))
	require.Error(t, err)
}

func TestHashObjectAndCatFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))

	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	out := new(bytes.Buffer)
	require.NoError(t, hashObjectCmd(out, testGlobalFlags(dir), path))
	oidHex := bytes.TrimSpace(out.Bytes())
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", string(oidHex))

	cat := new(bytes.Buffer)
	require.NoError(t, catFileCmd(cat, testGlobalFlags(dir), string(oidHex)))
	assert.Equal(t, "hello\n", cat.String())
}

func TestHashObjectEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))

	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out := new(bytes.Buffer)
	require.NoError(t, hashObjectCmd(out, testGlobalFlags(dir), path))
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", string(bytes.TrimSpace(out.Bytes())))
}

func TestWriteTreeAndLsTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("B\n"), 0o644))

	out := new(bytes.Buffer)
	require.NoError(t, writeTreeCmd(out, testGlobalFlags(dir)))
	treeOid := string(bytes.TrimSpace(out.Bytes()))

	ls := new(bytes.Buffer)
	require.NoError(t, lsTreeCmd(ls, testGlobalFlags(dir), treeOid, false))
	lines := bytes.Split(bytes.TrimRight(ls.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "100644 blob")
	assert.Contains(t, string(lines[0]), "\ta")
	assert.Contains(t, string(lines[1]), "\tb")

	namesOnly := new(bytes.Buffer)
	require.NoError(t, lsTreeCmd(namesOnly, testGlobalFlags(dir), treeOid, true))
	assert.Equal(t, "a\nb\n", namesOnly.String())
}

func TestCommitTreeChain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("A\n"), 0o644))

	treeOut := new(bytes.Buffer)
	require.NoError(t, writeTreeCmd(treeOut, testGlobalFlags(dir)))
	treeOid := string(bytes.TrimSpace(treeOut.Bytes()))

	firstOut := new(bytes.Buffer)
	require.NoError(t, commitTreeCmd(firstOut, testGlobalFlags(dir), treeOid, nil, "one"))
	first := string(bytes.TrimSpace(firstOut.Bytes()))

	secondOut := new(bytes.Buffer)
	require.NoError(t, commitTreeCmd(secondOut, testGlobalFlags(dir), treeOid, []string{first}, "two"))
	second := string(bytes.TrimSpace(secondOut.Bytes()))

	cat := new(bytes.Buffer)
	require.NoError(t, catFileCmd(cat, testGlobalFlags(dir), second))
	assert.Regexp(t, "^tree "+treeOid+"\nparent "+first+"\n", cat.String())
}

func TestCatFileRejectsInvalidOid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, initCmd(new(bytes.Buffer), testGlobalFlags(dir)))

	err := catFileCmd(new(bytes.Buffer), testGlobalFlags(dir), "not-an-oid")
	require.Error(t, err)
}
