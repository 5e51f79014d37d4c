package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
)

// defaultExcludes are seeded into new project configs. Scans without a
// project config run with no excludes at all; these apply only once a
// project opts in via init.
var defaultExcludes = []string{
	"node_modules/",
	".git/",
	"vendor/",
	"__pycache__/",
	"dist/",
	"build/",
}

func newInitCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a .srcmetrics/ project directory",
		Long: `Initialize a srcmetrics project in the current directory.

Creates a .srcmetrics/ directory containing:
  config.yaml    Project configuration
  history.db     Scan snapshot history (created on first scan)

The project is also registered in ~/.srcmetrics.conf for cross-project access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}

			projectDir := filepath.Join(cwd, config.ProjectDirName)

			// Check if .srcmetrics/ already exists.
			if _, err := os.Stat(projectDir); err == nil {
				return fmt.Errorf("%s already exists; project is already initialized", projectDir)
			}

			if interactive {
				return runInteractiveInit(cmd, cwd)
			}

			// Create .srcmetrics/ directory.
			if err := os.MkdirAll(projectDir, 0755); err != nil {
				return fmt.Errorf("create project directory: %w", err)
			}

			out := cmd.OutOrStdout()

			cfg := config.Default()
			cfg.Project.Name = detectProjectName(cwd)
			cfg.Scan.Exclude = append([]string{}, defaultExcludes...)

			// Write config.yaml.
			configPath := filepath.Join(projectDir, config.ProjectConfigFile)
			if err := config.WriteConfig(cfg, configPath); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}
			fmt.Fprintf(out, "Created %s\n", configPath)

			// Register in global registry.
			if err := config.RegisterProject(cfg.Project.Name, cwd, projectDir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to register project in %s: %v\n", config.RegistryPath(), err)
			} else {
				fmt.Fprintf(out, "Registered project %q in %s\n", cfg.Project.Name, config.RegistryPath())
			}

			// Print next steps.
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Edit .srcmetrics/config.yaml to adjust languages and excludes")
			fmt.Fprintln(out, "  2. Add to .gitignore:")
			fmt.Fprintln(out, "       .srcmetrics/history.db/")
			fmt.Fprintln(out, "  3. Run 'srcmetrics scan --repo . --out metrics.json'")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "run the interactive setup wizard")

	return cmd
}
