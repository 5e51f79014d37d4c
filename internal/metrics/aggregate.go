package metrics

import "path/filepath"

// FileResult pairs a measured file path with its record.
type FileResult struct {
	Path   string
	Record Record
}

// Report is the output document: repository-wide totals plus per-module
// summaries, where a module is an immediate parent directory.
type Report struct {
	RepoTotals Totals            `json:"repo_totals"`
	Modules    map[string]Totals `json:"modules"`
}

// Aggregate folds per-file results into repo totals and module summaries.
// Each file contributes to exactly one module, its parent directory, with
// no recursion into subdirectory totals. The fold is a sum, so any grouping
// of the inputs produces the same report.
func Aggregate(results []FileResult) *Report {
	rep := &Report{Modules: make(map[string]Totals)}
	for _, res := range results {
		dir := filepath.Dir(res.Path)
		mod := rep.Modules[dir]
		mod.Add(res.Record)
		rep.Modules[dir] = mod
		rep.RepoTotals.Add(res.Record)
	}
	return rep
}
