// Package scanner discovers measurable source files under a repository root
// and measures them concurrently.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/imyousuf/srcmetrics/internal/ignore"
	"github.com/imyousuf/srcmetrics/internal/lang"
)

// File is one collected source file with its language profile.
type File struct {
	Path    string
	Profile *lang.Profile
}

// Collection is the result of walking a repository root.
type Collection struct {
	// Files lists collectable sources in walk order.
	Files []File
	// Counts holds the per-language file counts of the collection. The
	// counts reflect collection, not later measurement success.
	Counts map[lang.Language]int
}

// Total returns the number of collected files.
func (c *Collection) Total() int { return len(c.Files) }

// CollectOptions configures a collection walk.
type CollectOptions struct {
	// Matcher excludes paths when non-nil.
	Matcher *ignore.Matcher
	// FollowSymlinks walks through directory symlinks. Visited directories
	// are tracked by resolved path, so link cycles terminate.
	FollowSymlinks bool
	// Languages restricts collection to the listed tags; empty means all.
	Languages []lang.Language
}

// Collect recursively gathers every regular file under root whose extension
// belongs to a supported language. The root itself must be readable;
// everything below it degrades silently: unreadable subdirectories and
// dangling links are skipped, never errors.
func Collect(root string, opts CollectOptions) (*Collection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat repo root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repo root %s is not a directory", root)
	}

	var allowed map[lang.Language]bool
	if len(opts.Languages) > 0 {
		allowed = make(map[lang.Language]bool, len(opts.Languages))
		for _, tag := range opts.Languages {
			allowed[tag] = true
		}
	}

	col := &Collection{Counts: make(map[lang.Language]int)}
	w := &walker{
		opts:    opts,
		allowed: allowed,
		col:     col,
		visited: make(map[string]bool),
	}
	w.dir(root)
	return col, nil
}

type walker struct {
	opts    CollectOptions
	allowed map[lang.Language]bool
	col     *Collection
	visited map[string]bool
}

func (w *walker) dir(dir string) {
	// Resolve through links so a symlink cycle visits each real directory
	// exactly once.
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return
	}
	if w.visited[real] {
		return
	}
	w.visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range entries {
		path := filepath.Join(dir, ent.Name())

		typ := ent.Type()
		switch {
		case typ.IsDir():
			if w.opts.Matcher.MatchDir(path) {
				continue
			}
			w.dir(path)
		case typ&fs.ModeSymlink != 0:
			if !w.opts.FollowSymlinks || w.opts.Matcher.Match(path) {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				continue // dangling link
			}
			if target.IsDir() {
				if w.opts.Matcher.MatchDir(path) {
					continue
				}
				w.dir(path)
			} else if target.Mode().IsRegular() {
				w.file(path)
			}
		case typ.IsRegular():
			if w.opts.Matcher.Match(path) {
				continue
			}
			w.file(path)
		}
	}
}

func (w *walker) file(path string) {
	p, ok := lang.ForPath(path)
	if !ok {
		return
	}
	if w.allowed != nil && !w.allowed[p.Language] {
		return
	}
	w.col.Files = append(w.col.Files, File{Path: path, Profile: p})
	w.col.Counts[p.Language]++
}
