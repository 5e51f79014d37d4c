package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
	"github.com/imyousuf/srcmetrics/internal/lang"
)

// detectProjectName probes the repository's own manifests for a project name
// before falling back to the directory name.
func detectProjectName(rootDir string) string {
	if name := pyprojectName(filepath.Join(rootDir, "pyproject.toml")); name != "" {
		return name
	}
	if name := packageJSONName(filepath.Join(rootDir, "package.json")); name != "" {
		return name
	}
	return filepath.Base(rootDir)
}

func pyprojectName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Project.Name)
}

func packageJSONName(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Name)
}

// detectLanguages walks rootDir (depth-limited to 2 levels) and returns the
// language tags seen by file extension.
func detectLanguages(rootDir string) []string {
	found := make(map[string]bool)

	rootDepth := strings.Count(filepath.ToSlash(rootDir), "/")
	_ = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		// Depth limit: 2 levels below root
		depth := strings.Count(filepath.ToSlash(path), "/") - rootDepth
		if d.IsDir() {
			if depth >= 2 {
				return fs.SkipDir
			}
			// Skip common non-source directories
			base := d.Name()
			if base == ".git" || base == "node_modules" || base == "vendor" || base == "__pycache__" || base == "dist" || base == "build" {
				return fs.SkipDir
			}
			return nil
		}
		if p, ok := lang.ForPath(path); ok {
			found[string(p.Language)] = true
		}
		return nil
	})

	result := make([]string, 0, len(found))
	for tag := range found {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

// runInteractiveInit runs the interactive TUI wizard for project initialization.
func runInteractiveInit(cmd *cobra.Command, cwd string) error {
	out := cmd.OutOrStdout()

	// Detect languages in the project directory.
	detected := detectLanguages(cwd)
	detectedSet := make(map[string]bool, len(detected))
	for _, l := range detected {
		detectedSet[l] = true
	}
	if len(detected) == 0 {
		// Nothing measurable found yet; pre-select everything.
		for _, tag := range lang.Tags() {
			detectedSet[string(tag)] = true
		}
	}

	// Form variables
	var (
		projectName = detectProjectName(cwd)
		languages   []string
		excludes    []string
		historyOn   = true
		confirm     bool
	)

	// Build language options with detected ones pre-selected
	tags := lang.Tags()
	langOptions := make([]huh.Option[string], len(tags))
	for i, tag := range tags {
		opt := huh.NewOption(string(tag), string(tag))
		if detectedSet[string(tag)] {
			opt = opt.Selected(true)
		}
		langOptions[i] = opt
	}

	// Exclude pattern options, all pre-selected
	excludeOptions := make([]huh.Option[string], len(defaultExcludes))
	for i, pattern := range defaultExcludes {
		excludeOptions[i] = huh.NewOption(pattern, pattern).Selected(true)
	}

	form := huh.NewForm(
		// Group 1: Project Setup
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&projectName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name cannot be empty")
					}
					return nil
				}),
		).Title("Project Setup"),

		// Group 2: Languages
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Languages to measure").
				Description("Auto-detected languages are pre-selected").
				Options(langOptions...).
				Value(&languages).
				Filterable(true).
				Height(8),
		).Title("Languages"),

		// Group 3: Exclusions
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Exclude patterns").
				Description("Files under matching paths are never collected").
				Options(excludeOptions...).
				Value(&excludes).
				Height(10),
		).Title("Exclusions"),

		// Group 4: History
		huh.NewGroup(
			huh.NewConfirm().
				Title("Record scan history?").
				Description("Keeps a snapshot of repository totals after every scan").
				Value(&historyOn).
				Affirmative("Yes").
				Negative("No"),
		).Title("History"),

		// Group 5: Confirm
		huh.NewGroup(
			huh.NewNote().
				Title("Summary").
				DescriptionFunc(func() string {
					langStr := strings.Join(languages, ", ")
					if langStr == "" {
						langStr = "(none)"
					}
					excludeStr := strings.Join(excludes, ", ")
					if excludeStr == "" {
						excludeStr = "(none)"
					}
					return fmt.Sprintf(
						"Project:    %s\n"+
							"Languages:  %s\n"+
							"Excludes:   %s\n"+
							"History:    %v",
						projectName, langStr, excludeStr, historyOn,
					)
				}, &languages),
			huh.NewConfirm().
				Title("Create project?").
				Value(&confirm).
				Affirmative("Create").
				Negative("Cancel"),
		).Title("Confirm"),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		return fmt.Errorf("interactive init: %w", err)
	}

	if !confirm {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	// Build config from wizard values
	cfg := config.Default()
	cfg.Project.Name = projectName
	cfg.Scan.Languages = languages
	cfg.Scan.Exclude = excludes
	cfg.History.Enabled = historyOn

	// Create .srcmetrics/ directory
	projectDir := filepath.Join(cwd, config.ProjectDirName)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	// Write config.yaml via WriteConfig
	configPath := filepath.Join(projectDir, config.ProjectConfigFile)
	if err := config.WriteConfig(cfg, configPath); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	fmt.Fprintf(out, "Created %s\n", configPath)

	// Register in global registry
	if err := config.RegisterProject(projectName, cwd, projectDir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to register project in %s: %v\n", config.RegistryPath(), err)
	} else {
		fmt.Fprintf(out, "Registered project %q in %s\n", projectName, config.RegistryPath())
	}

	// Print next steps
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Add .srcmetrics/history.db/ to .gitignore")
	fmt.Fprintln(out, "  2. Run 'srcmetrics scan --repo . --out metrics.json'")

	return nil
}
