// Package ignore filters scanned and watched paths with gitignore-style
// patterns from project configuration and the repository's own .gitignore.
package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher reports whether a path is excluded. Patterns are matched against
// paths relative to the repository root, the same way git applies a
// top-level .gitignore.
type Matcher struct {
	root string
	gi   *gitignore.GitIgnore
}

// New builds a matcher for root from the given patterns plus the patterns in
// <root>/.gitignore when that file exists. A matcher with no patterns matches
// nothing, so scans over unconfigured repositories see every file.
func New(root string, patterns []string) *Matcher {
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		if gi, err := gitignore.CompileIgnoreFileAndLines(gitignorePath, patterns...); err == nil {
			return &Matcher{root: root, gi: gi}
		}
	}
	return &Matcher{root: root, gi: gitignore.CompileIgnoreLines(patterns...)}
}

// Match reports whether path is excluded.
func (m *Matcher) Match(path string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(m.rel(path))
}

// MatchDir reports whether the directory at path is excluded. Trailing-slash
// patterns like "vendor/" match the directory itself here, so walkers can
// prune the subtree instead of filtering its files one by one.
func (m *Matcher) MatchDir(path string) bool {
	if m == nil || m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(m.rel(path) + "/")
}

func (m *Matcher) rel(path string) string {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		return path
	}
	return rel
}
