package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
	"github.com/imyousuf/srcmetrics/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or inspect recorded scan snapshots",
		Long: `List or inspect the scan snapshots recorded for this project.

Subcommands:
  list       List snapshots, newest first (the default)
  show <id>  Print one snapshot as JSON ('latest' resolves to the newest)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, dbPath)
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "snapshot database (default: <project dir>/history.db)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, dbPath)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one snapshot as JSON",
		Long: `Print one snapshot as indented JSON.

The id may be a full snapshot id, a unique prefix, or 'latest'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, dbPath, args[0])
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)

	return cmd
}

// resolveHistoryDB returns the snapshot database path, or empty when no
// project is initialized and no explicit path was given.
func resolveHistoryDB(dbPath string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.ResolveHistoryPath(dbPath), nil
}

func runHistoryList(cmd *cobra.Command, dbPath string) error {
	out := cmd.OutOrStdout()

	path, err := resolveHistoryDB(dbPath)
	if err != nil {
		return err
	}
	// Stat before Open: badger would create the database directory just to
	// find it empty.
	if path == "" || !dbExists(path) {
		fmt.Fprintln(out, "No snapshots recorded.")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	snaps, err := store.List()
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-10s %-20s %-9s %6s %9s %11s\n", "ID", "CREATED", "COMMIT", "FILES", "LOC", "COMPLEXITY")
	for _, snap := range snaps {
		commit := snap.Commit
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(out, "%-10s %-20s %-9s %6d %9d %11d\n",
			snap.ShortID(),
			snap.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			commit,
			snap.FileCount,
			snap.Totals.PhysicalLOC[0],
			snap.Totals.Complexity,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, dbPath, id string) error {
	path, err := resolveHistoryDB(dbPath)
	if err != nil {
		return err
	}
	if path == "" || !dbExists(path) {
		return fmt.Errorf("no snapshots recorded")
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	var snap *history.Snapshot
	if id == "latest" {
		snap, err = store.Latest()
	} else {
		snap, err = store.Get(id)
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func dbExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
