package gitutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// initTestRepo creates a git repository with one commit in a temp directory.
// Tests are skipped when git is not installed.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}

	run("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	run("add", "a.txt")
	run("commit", "-m", "initial")
	return dir
}

func TestCurrentBranch(t *testing.T) {
	dir := initTestRepo(t)
	if got := CurrentBranch(dir); got != "main" {
		t.Errorf("CurrentBranch = %q, want main", got)
	}
}

func TestShortCommit(t *testing.T) {
	dir := initTestRepo(t)
	got := ShortCommit(dir)
	if len(got) < 7 {
		t.Errorf("ShortCommit = %q, want an abbreviated hash", got)
	}
	for _, c := range got {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("unexpected character %q in commit hash %q", string(c), got)
			break
		}
	}
}

func TestIsDirty(t *testing.T) {
	dir := initTestRepo(t)
	if IsDirty(dir) {
		t.Error("fresh commit should report clean")
	}

	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if !IsDirty(dir) {
		t.Error("untracked file should report dirty")
	}
}

func TestDegradesOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()

	if got := CurrentBranch(dir); got != "" {
		t.Errorf("CurrentBranch = %q, want empty outside a repo", got)
	}
	if got := ShortCommit(dir); got != "" {
		t.Errorf("ShortCommit = %q, want empty outside a repo", got)
	}
	if IsDirty(dir) {
		t.Error("IsDirty should report clean outside a repo")
	}
}

func TestRunGitInvalidRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	if _, err := runGit("/tmp/nonexistent-repo-path-12345", "status"); err == nil {
		t.Fatal("expected error for invalid repo path, got nil")
	}
}

func TestRunGitOutputTrimmed(t *testing.T) {
	dir := initTestRepo(t)
	output, err := runGit(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if output != strings.TrimSpace(output) {
		t.Errorf("expected trimmed output, got %q", output)
	}
}
