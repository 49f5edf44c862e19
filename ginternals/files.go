package ginternals

import (
	"path"
	"path/filepath"
)

// .git/ directory and file names. Kept relative so callers can join them
// against whatever repository root they're working with.
const (
	// DotGit is the name of the repository metadata directory.
	DotGit = ".git"
	// HeadFile is the name of the HEAD file.
	HeadFile = "HEAD"
	objectsDirName = "objects"
	refsDirName    = "refs"
	refsHeadsRelPath = refsDirName + "/heads"
)

// LocalBranchFullName returns the full ref name of a branch.
// ex. for "main" returns "refs/heads/main"
func LocalBranchFullName(shortName string) string {
	return path.Join(refsHeadsRelPath, shortName)
}

// DotGitPath returns the path to the repository's .git directory.
func DotGitPath(repoRoot string) string {
	return filepath.Join(repoRoot, DotGit)
}

// RefsPath returns the path to the directory containing all refs.
func RefsPath(dotGitPath string) string {
	return filepath.Join(dotGitPath, refsDirName)
}

// LocalBranchesPath returns the path to the directory containing the
// local branches.
func LocalBranchesPath(dotGitPath string) string {
	return filepath.Join(RefsPath(dotGitPath), "heads")
}

// ObjectsPath returns the path to the directory that contains the objects.
func ObjectsPath(dotGitPath string) string {
	return filepath.Join(dotGitPath, objectsDirName)
}

// HeadPath returns the path to the HEAD file.
func HeadPath(dotGitPath string) string {
	return filepath.Join(dotGitPath, HeadFile)
}

// RefPath returns the path of a named reference (e.g. "refs/heads/main").
func RefPath(dotGitPath string, refName string) string {
	return filepath.Join(dotGitPath, filepath.FromSlash(refName))
}

// LooseObjectPath returns the path of a loose object.
// Path is .git/objects/first_2_chars_of_sha/remaining_chars_of_sha
//
// Ex. path of fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3 is:
// .git/objects/fc/fe68a0e44e04bd7fd564fc0b75f1ae457e18b3
func LooseObjectPath(dotGitPath string, sha string) string {
	return filepath.Join(ObjectsPath(dotGitPath), sha[:2], sha[2:])
}
