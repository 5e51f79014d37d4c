package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/imyousuf/srcmetrics/internal/config"
	"github.com/imyousuf/srcmetrics/internal/lang"
)

// Style definitions for config view.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	labelStyle = lipgloss.NewStyle().
			Faint(true).
			Width(18)
	valueStyle = lipgloss.NewStyle()
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit project configuration",
		Long: `View or edit srcmetrics project configuration.

By default, displays the effective configuration in a pretty-printed format.
Use 'config edit' to edit configuration interactively.`,
		RunE: runConfigView,
	}

	cmd.AddCommand(newConfigEditCmd())

	return cmd
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)

	// Title
	fmt.Fprintln(out, headerStyle.Render("srcmetrics Configuration"))
	fmt.Fprintln(out, headerStyle.Render(strings.Repeat("=", 24)))
	fmt.Fprintln(out)

	// Project
	printSection(out, "Project")
	name := cfg.Project.Name
	if name == "" {
		name = "(unnamed)"
	}
	printKV(out, "Name", name)
	if cfg.ConfigDir != "" {
		printKV(out, "Config dir", cfg.ConfigDir)
	} else {
		printKV(out, "Config dir", "(defaults, no project)")
	}
	fmt.Fprintln(out)

	// Scan
	printSection(out, "Scan")
	if len(cfg.Scan.Languages) > 0 {
		printKV(out, "Languages", strings.Join(cfg.Scan.Languages, ", "))
	} else {
		printKV(out, "Languages", "(all)")
	}
	workers := strconv.Itoa(cfg.Scan.Workers)
	if cfg.Scan.Workers == 0 {
		workers = "0 (all CPUs)"
	}
	printKV(out, "Workers", workers)
	printKV(out, "Follow symlinks", boolYesNo(cfg.Scan.FollowSymlinks))
	fmt.Fprintln(out)

	// Exclusions
	printSection(out, "Exclusions")
	if len(cfg.Scan.Exclude) == 0 {
		fmt.Fprintln(out, "    (none)")
	}
	for _, pattern := range cfg.Scan.Exclude {
		fmt.Fprintf(out, "    %s\n", pattern)
	}
	fmt.Fprintln(out)

	// Output
	printSection(out, "Output")
	printKV(out, "Indent JSON", boolYesNo(cfg.Output.Indent))
	fmt.Fprintln(out)

	// History
	printSection(out, "History")
	printKV(out, "Enabled", boolYesNo(cfg.History.Enabled))
	if dbPath := cfg.ResolveHistoryPath(""); dbPath != "" {
		printKV(out, "DB Path", dbPath)
	}
	fmt.Fprintln(out)

	return nil
}

func printSection(out io.Writer, title string) {
	fmt.Fprintf(out, "  %s\n", headerStyle.Render(title))
}

func printKV(out io.Writer, label, value string) {
	fmt.Fprintf(out, "    %s%s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func boolYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit project configuration interactively",
		Long:  `Edit srcmetrics project configuration using an interactive wizard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigEdit(cmd)
		},
	}
}

func runConfigEdit(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.ConfigDir == "" {
		return fmt.Errorf("no project config found; run 'srcmetrics init' first")
	}

	out := cmd.OutOrStdout()

	// Pre-fill form variables from existing config
	projectName := cfg.Project.Name
	languages := make([]string, len(cfg.Scan.Languages))
	copy(languages, cfg.Scan.Languages)
	excludes := make([]string, len(cfg.Scan.Exclude))
	copy(excludes, cfg.Scan.Exclude)
	followSymlinks := cfg.Scan.FollowSymlinks
	indent := cfg.Output.Indent
	historyOn := cfg.History.Enabled
	var confirm bool

	// Language options with configured ones pre-selected
	selectedLangs := make(map[string]bool, len(languages))
	for _, l := range languages {
		selectedLangs[l] = true
	}
	tags := lang.Tags()
	langOptions := make([]huh.Option[string], len(tags))
	for i, tag := range tags {
		opt := huh.NewOption(string(tag), string(tag))
		if selectedLangs[string(tag)] {
			opt = opt.Selected(true)
		}
		langOptions[i] = opt
	}

	// Exclude options: the seeded defaults plus anything already configured.
	patterns := append([]string{}, defaultExcludes...)
	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		seen[p] = true
	}
	for _, p := range excludes {
		if !seen[p] {
			patterns = append(patterns, p)
			seen[p] = true
		}
	}
	selectedExcludes := make(map[string]bool, len(excludes))
	for _, p := range excludes {
		selectedExcludes[p] = true
	}
	excludeOptions := make([]huh.Option[string], len(patterns))
	for i, p := range patterns {
		opt := huh.NewOption(p, p)
		if selectedExcludes[p] {
			opt = opt.Selected(true)
		}
		excludeOptions[i] = opt
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
				Options(langOptions...).
				Value(&languages).
				Filterable(true).
				Height(8),
		).Title("Languages"),

		// Group 3: Exclusions
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Exclude patterns").
				Options(excludeOptions...).
				Value(&excludes).
				Height(10),
		).Title("Exclusions"),

		// Group 4: Options
		huh.NewGroup(
			huh.NewConfirm().
				Title("Follow symlinks during collection?").
				Value(&followSymlinks).
				Affirmative("Yes").
				Negative("No"),
			huh.NewConfirm().
				Title("Indent JSON reports?").
				Value(&indent).
				Affirmative("Yes").
				Negative("No"),
			huh.NewConfirm().
				Title("Record scan history?").
				Value(&historyOn).
				Affirmative("Yes").
				Negative("No"),
		).Title("Options"),

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
							"Symlinks:   %v\n"+
							"Indent:     %v\n"+
							"History:    %v",
						projectName, langStr, excludeStr,
						followSymlinks, indent, historyOn,
					)
				}, &languages),
			huh.NewConfirm().
				Title("Save changes?").
				Value(&confirm).
				Affirmative("Save").
				Negative("Cancel"),
		).Title("Confirm"),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		return fmt.Errorf("interactive config edit: %w", err)
	}

	if !confirm {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	// Update config from form values
	cfg.Project.Name = projectName
	cfg.Scan.Languages = languages
	cfg.Scan.Exclude = excludes
	cfg.Scan.FollowSymlinks = followSymlinks
	cfg.Output.Indent = indent
	cfg.History.Enabled = historyOn

	// Write updated config
	configPath := filepath.Join(cfg.ConfigDir, config.ProjectConfigFile)
	if err := config.WriteConfig(cfg, configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}
