package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
	"github.com/imyousuf/srcmetrics/internal/history"
	"github.com/imyousuf/srcmetrics/internal/ignore"
	"github.com/imyousuf/srcmetrics/internal/metrics"
	"github.com/imyousuf/srcmetrics/internal/report"
	"github.com/imyousuf/srcmetrics/internal/scanner"
)

func newScanCmd() *cobra.Command {
	var (
		repoPath string
		outPath  string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Measure a repository and write a JSON report",
		Long: `Scan a repository: collect its source files, measure them in parallel,
aggregate per-module and repository totals, and write the report as JSON.
Output paths ending in .gz are gzip-compressed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Scan.Workers = workers
			}

			out := cmd.OutOrStdout()

			matcher := ignore.New(repoPath, cfg.Scan.Exclude)
			col, err := scanner.Collect(repoPath, scanner.CollectOptions{
				Matcher:        matcher,
				FollowSymlinks: cfg.Scan.FollowSymlinks,
				Languages:      cfg.LanguageTags(),
			})
			if err != nil {
				return fmt.Errorf("collect files: %w", err)
			}
			report.PrintCollection(out, col)

			sc := &scanner.Scanner{Workers: cfg.Scan.Workers}
			if verbose {
				sc.Logf = func(format string, args ...any) {
					fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
				}
			}
			results, err := sc.Measure(cmd.Context(), col)
			if err != nil {
				return fmt.Errorf("measure files: %w", err)
			}

			rep := metrics.Aggregate(results)
			if err := report.Write(rep, outPath, cfg.Output.Indent); err != nil {
				return err
			}
			report.PrintCompletion(out, outPath)

			recordSnapshot(cmd, cfg, repoPath, col, rep)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", "", "repository root to scan")
	cmd.Flags().StringVar(&outPath, "out", "", "output file for the JSON report")
	cmd.Flags().IntVar(&workers, "workers", 0, "measurement workers, overrides config (0 = all CPUs)")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagRequired("out")

	return cmd
}

// recordSnapshot appends a history entry after a successful scan. Recording is
// best-effort: failures warn on stderr and never fail the scan itself.
func recordSnapshot(cmd *cobra.Command, cfg *config.Config, repoPath string, col *scanner.Collection, rep *metrics.Report) {
	if cfg.ConfigDir == "" || !cfg.History.Enabled {
		return
	}
	dbPath := cfg.ResolveHistoryPath("")
	if dbPath == "" {
		return
	}

	store, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open history store: %v\n", err)
		return
	}
	defer store.Close()

	languages := make(map[string]int, len(col.Counts))
	for tag, n := range col.Counts {
		languages[string(tag)] = n
	}
	snap := history.NewSnapshot(repoPath, col.Total(), languages, rep.RepoTotals)
	if err := store.Put(snap); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not record snapshot: %v\n", err)
		return
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded snapshot %s\n", snap.ShortID())
	}
}
