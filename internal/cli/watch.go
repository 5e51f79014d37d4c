package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
	"github.com/imyousuf/srcmetrics/internal/ignore"
	"github.com/imyousuf/srcmetrics/internal/lang"
	"github.com/imyousuf/srcmetrics/internal/metrics"
	"github.com/imyousuf/srcmetrics/internal/report"
	"github.com/imyousuf/srcmetrics/internal/scanner"
	"github.com/imyousuf/srcmetrics/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		repoPath string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the report fresh as files change",
		Long: `Scan the repository once, then watch it for changes: re-measure files as
they are created or modified, drop them as they are removed, and rewrite
the report after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			out := cmd.OutOrStdout()

			// Watch always ignores the VCS and project dirs plus the report
			// itself, or each rewrite would feed the next refresh.
			patterns := append([]string{}, cfg.Scan.Exclude...)
			patterns = append(patterns, ".git/", config.ProjectDirName+"/")
			if rel, err := filepath.Rel(repoPath, outPath); err == nil && !strings.HasPrefix(rel, "..") {
				patterns = append(patterns, rel)
			}
			matcher := ignore.New(repoPath, patterns)

			// Initial full scan.
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

			// Per-file records keyed by path, so one changed file means one
			// re-measurement and a cheap re-aggregation.
			records := make(map[string]metrics.Record, len(results))
			for _, res := range results {
				records[res.Path] = res.Record
			}

			writeReport := func() error {
				rs := make([]metrics.FileResult, 0, len(records))
				for path, rec := range records {
					rs = append(rs, metrics.FileResult{Path: path, Record: rec})
				}
				return report.WriteAtomic(metrics.Aggregate(rs), outPath, cfg.Output.Indent)
			}
			if err := writeReport(); err != nil {
				return err
			}
			report.PrintCompletion(out, outPath)

			// Set up signal handling.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				cancel()
			}()

			w := watcher.New(watcher.Config{Root: repoPath, Matcher: matcher})
			defer w.Close()

			events, err := w.Start(ctx)
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}

			fmt.Fprintf(out, "\nWatching %s for changes... (Ctrl+C to stop)\n", repoPath)

			allowed := allowedLanguages(cfg.LanguageTags())
			for evt := range events {
				if !applyEvent(records, evt, allowed) {
					continue
				}
				if err := writeReport(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "[%s] %s (%d files)\n", evt.Op, evt.Path, len(records))
			}

			fmt.Fprintln(out, "Stopped watching.")
			return nil
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", "", "repository root to watch")
	cmd.Flags().StringVar(&outPath, "out", "", "output file for the JSON report")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagRequired("out")

	return cmd
}

func allowedLanguages(tags []lang.Language) map[lang.Language]bool {
	if len(tags) == 0 {
		return nil
	}
	allowed := make(map[lang.Language]bool, len(tags))
	for _, tag := range tags {
		allowed[tag] = true
	}
	return allowed
}

// applyEvent updates the record map for one file system event and reports
// whether anything changed, meaning the report needs a rewrite.
func applyEvent(records map[string]metrics.Record, evt watcher.Event, allowed map[lang.Language]bool) bool {
	profile, ok := lang.ForPath(evt.Path)
	if !ok {
		return false
	}
	if allowed != nil && !allowed[profile.Language] {
		return false
	}

	switch evt.Op {
	case watcher.Remove, watcher.Rename:
		if _, ok := records[evt.Path]; !ok {
			return false
		}
		delete(records, evt.Path)
		return true
	default: // Create, Write
		src, err := os.ReadFile(evt.Path)
		if err != nil {
			// The file may be gone again already; treat it as removed.
			if _, had := records[evt.Path]; had {
				delete(records, evt.Path)
				return true
			}
			return false
		}
		records[evt.Path] = metrics.MeasureSource(string(src), profile)
		return true
	}
}
