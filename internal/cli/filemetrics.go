package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/lang"
	"github.com/imyousuf/srcmetrics/internal/metrics"
)

func newFileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Show the metrics of a single source file",
		Long:  `Measure one source file and print its metrics.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]

			profile, ok := lang.ForPath(filePath)
			if !ok {
				return fmt.Errorf("unsupported file extension %q", filepath.Ext(filePath))
			}

			content, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			rec := metrics.MeasureSource(string(content), profile)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			fmt.Fprintf(out, "Metrics for %s (language: %s)\n", filePath, profile.Language)
			fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))

			complexity := 0
			for _, score := range rec.Complexity {
				complexity += score
			}

			// Metric names in alphabetical order for stable output.
			rows := []struct {
				name  string
				value int
			}{
				{"cyclomatic_complexity", complexity},
				{"fan_in", rec.FanIn},
				{"fan_out", rec.FanOut},
				{"logical_loc", rec.LogicalLOC},
				{"num_functions", rec.NumFunctions},
				{"physical_loc", rec.PhysicalLOC[0]},
				{"physical_loc_blank", rec.PhysicalLOC[1]},
				{"physical_loc_comment", rec.PhysicalLOC[2]},
			}
			for _, row := range rows {
				fmt.Fprintf(out, "  %-25s %d\n", row.name, row.value)
			}

			if verbose && rec.NumFunctions > 0 {
				fmt.Fprintln(out)
				names := metrics.ExtractFunctionNames(metrics.Normalize(string(content), profile), profile)
				fmt.Fprintf(out, "  functions: %s\n", strings.Join(names, ", "))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the metrics record as JSON")

	return cmd
}
