// Package cli implements the command-line interface for srcmetrics.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "srcmetrics",
	Short: "srcmetrics - Lexical source metrics for C, Java, TS/JS, and Python",
	Long: `srcmetrics estimates source code metrics without parsing: physical and
logical lines of code, function counts, cyclomatic complexity, and
fan-in/fan-out, computed from lexical heuristics over four language
families (c, java, tsjs, python).

Commands:
  scan       Measure a repository and write a JSON report
  file       Show the metrics of a single source file
  init       Initialize a .srcmetrics/ project directory
  config     View or edit project configuration
  history    List or inspect recorded scan snapshots
  watch      Keep the report fresh as files change`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: discovered .srcmetrics/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	bindFlag := func(key, flag string) {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
		}
	}
	bindFlag("config_file", "config")

	// Add subcommands
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newFileCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
