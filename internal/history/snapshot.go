// Package history persists one snapshot per scan in an embedded Badger
// store, so metric trends survive across runs.
package history

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imyousuf/srcmetrics/internal/gitutil"
	"github.com/imyousuf/srcmetrics/internal/metrics"
)

// Snapshot is one recorded scan: when it ran, what it covered, and the
// aggregate totals it produced.
type Snapshot struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	RepoPath  string         `json:"repo_path"`
	Branch    string         `json:"branch,omitempty"`
	Commit    string         `json:"commit,omitempty"`
	Dirty     bool           `json:"dirty,omitempty"`
	FileCount int            `json:"file_count"`
	Languages map[string]int `json:"languages,omitempty"`
	Totals    metrics.Totals `json:"totals"`
}

// NewSnapshot labels the aggregate of one scan. Git metadata is best-effort:
// outside a repository the branch and commit stay empty.
func NewSnapshot(repoPath string, fileCount int, languages map[string]int, totals metrics.Totals) *Snapshot {
	return &Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		RepoPath:  repoPath,
		Branch:    gitutil.CurrentBranch(repoPath),
		Commit:    gitutil.ShortCommit(repoPath),
		Dirty:     gitutil.IsDirty(repoPath),
		FileCount: fileCount,
		Languages: languages,
		Totals:    totals,
	}
}

// ShortID returns the first UUID segment, enough to identify a snapshot in
// listings and to pass back to `history show`.
func (s *Snapshot) ShortID() string {
	if i := strings.Index(s.ID, "-"); i > 0 {
		return s.ID[:i]
	}
	return s.ID
}
