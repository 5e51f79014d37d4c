// Package gitutil provides best-effort git helpers for labeling snapshots.
// Every lookup degrades to a zero value when git is unavailable or the path
// is not a repository; callers never branch on errors.
package gitutil

import (
	"fmt"
	"os/exec"
	"strings"
)

// CurrentBranch returns the checked-out branch name, or "" when it cannot be
// determined.
func CurrentBranch(repoPath string) string {
	out, err := runGit(repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// ShortCommit returns the abbreviated HEAD commit hash, or "".
func ShortCommit(repoPath string) string {
	out, err := runGit(repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// IsDirty reports whether the work tree has uncommitted changes. Paths that
// cannot be queried report clean.
func IsDirty(repoPath string) bool {
	out, err := runGit(repoPath, "status", "--porcelain")
	if err != nil {
		return false
	}
	return out != ""
}

// runGit executes a git command in the given repository path and returns trimmed stdout.
func runGit(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}
