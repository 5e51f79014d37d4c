package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	// Create a temp directory with .srcmetrics/config.yaml
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ProjectDirName)
	if err := os.Mkdir(projectDir, 0755); err != nil {
		t.Fatalf("failed to create .srcmetrics dir: %v", err)
	}

	configContent := `project:
  name: "test-project"

scan:
  exclude:
    - "node_modules/"
    - "vendor/"
  languages:
    - python
    - c
  workers: 3
  follow_symlinks: false

output:
  indent: false

history:
  enabled: false
  db_path: /custom/history.db
`
	configPath := filepath.Join(projectDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Change to the temp directory so Load() discovers .srcmetrics/config.yaml
	chdir(t, tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Project.Name != "test-project" {
		t.Errorf("Project.Name = %q, want %q", cfg.Project.Name, "test-project")
	}

	if len(cfg.Scan.Exclude) != 2 {
		t.Fatalf("len(Scan.Exclude) = %d, want 2", len(cfg.Scan.Exclude))
	}
	if cfg.Scan.Exclude[0] != "node_modules/" {
		t.Errorf("Scan.Exclude[0] = %q, want %q", cfg.Scan.Exclude[0], "node_modules/")
	}

	if len(cfg.Scan.Languages) != 2 {
		t.Fatalf("len(Scan.Languages) = %d, want 2", len(cfg.Scan.Languages))
	}
	if cfg.Scan.Languages[0] != "python" {
		t.Errorf("Scan.Languages[0] = %q, want %q", cfg.Scan.Languages[0], "python")
	}

	if cfg.Scan.Workers != 3 {
		t.Errorf("Scan.Workers = %d, want 3", cfg.Scan.Workers)
	}
	if cfg.Scan.FollowSymlinks {
		t.Error("Scan.FollowSymlinks = true, want false")
	}
	if cfg.Output.Indent {
		t.Error("Output.Indent = true, want false")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.DBPath != "/custom/history.db" {
		t.Errorf("History.DBPath = %q, want %q", cfg.History.DBPath, "/custom/history.db")
	}
	if cfg.ConfigDir != projectDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, projectDir)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Load from an empty temp directory (no config file)
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Should have all four language families
	if len(cfg.Scan.Languages) != 4 {
		t.Errorf("len(Scan.Languages) = %d, want 4 (defaults)", len(cfg.Scan.Languages))
	}

	// Default excludes must be empty so a bare scan collects everything
	if len(cfg.Scan.Exclude) != 0 {
		t.Errorf("Scan.Exclude = %v, want empty", cfg.Scan.Exclude)
	}

	if cfg.Scan.Workers != 0 {
		t.Errorf("Scan.Workers = %d, want 0", cfg.Scan.Workers)
	}
	if !cfg.Scan.FollowSymlinks {
		t.Error("Scan.FollowSymlinks = false, want true")
	}
	if !cfg.Output.Indent {
		t.Error("Output.Indent = false, want true")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.ConfigDir != "" {
		t.Errorf("ConfigDir = %q, want empty", cfg.ConfigDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("project:\n  name: explicit\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	viper.Set("config_file", cfgPath)
	defer viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Project.Name != "explicit" {
		t.Errorf("Project.Name = %q, want %q", cfg.Project.Name, "explicit")
	}
	if cfg.ConfigDir != tmpDir {
		t.Errorf("ConfigDir = %q, want %q", cfg.ConfigDir, tmpDir)
	}
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	viper.Set("config_file", filepath.Join(t.TempDir(), "nope.yaml"))
	defer viper.Reset()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an explicitly named missing file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SRCMETRICS_SCAN_WORKERS", "4")
	t.Setenv("SRCMETRICS_PROJECT_NAME", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Scan.Workers = %d, want 4 (from env)", cfg.Scan.Workers)
	}
	if cfg.Project.Name != "from-env" {
		t.Errorf("Project.Name = %q, want %q", cfg.Project.Name, "from-env")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "zero config",
			cfg:     Config{},
			wantErr: false,
		},
		{
			name:    "defaults",
			cfg:     *Default(),
			wantErr: false,
		},
		{
			name: "unknown language",
			cfg: Config{
				Scan: ScanConfig{Languages: []string{"go"}},
			},
			wantErr: true,
			errMsg:  "unknown language",
		},
		{
			name: "negative workers",
			cfg: Config{
				Scan: ScanConfig{Workers: -1},
			},
			wantErr: true,
			errMsg:  "workers must be",
		},
		{
			name: "subset of languages",
			cfg: Config{
				Scan: ScanConfig{Languages: []string{"python", "tsjs"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() error = nil, want error containing %q", tt.errMsg)
				} else if tt.errMsg != "" {
					if got := err.Error(); !contains(got, tt.errMsg) {
						t.Errorf("Validate() error = %q, want error containing %q", got, tt.errMsg)
					}
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestDiscoverProjectDir(t *testing.T) {
	// Create a hierarchy: tmpDir/sub1/sub2 with .srcmetrics/ at tmpDir level.
	tmpDir := t.TempDir()
	sub1 := filepath.Join(tmpDir, "sub1")
	sub2 := filepath.Join(sub1, "sub2")
	if err := os.MkdirAll(sub2, 0755); err != nil {
		t.Fatalf("create subdirs: %v", err)
	}
	projectDir := filepath.Join(tmpDir, ProjectDirName)
	if err := os.Mkdir(projectDir, 0755); err != nil {
		t.Fatalf("create .srcmetrics: %v", err)
	}

	// Discover from sub2 should find the .srcmetrics at tmpDir.
	got := DiscoverProjectDir(sub2)
	if got != projectDir {
		t.Errorf("DiscoverProjectDir(%q) = %q, want %q", sub2, got, projectDir)
	}

	// Discover from sub1 should also find it.
	got = DiscoverProjectDir(sub1)
	if got != projectDir {
		t.Errorf("DiscoverProjectDir(%q) = %q, want %q", sub1, got, projectDir)
	}

	// Discover from the root itself should find it.
	got = DiscoverProjectDir(tmpDir)
	if got != projectDir {
		t.Errorf("DiscoverProjectDir(%q) = %q, want %q", tmpDir, got, projectDir)
	}

	// Discover from a directory without .srcmetrics should return empty.
	isolatedDir := t.TempDir()
	got = DiscoverProjectDir(isolatedDir)
	if got != "" {
		t.Errorf("DiscoverProjectDir(%q) = %q, want empty", isolatedDir, got)
	}
}

func TestResolveHistoryPath(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		flagValue string
		want      string
	}{
		{
			name:      "flag takes priority",
			cfg:       Config{History: HistoryConfig{DBPath: "/yaml/path"}, ConfigDir: "/proj/.srcmetrics"},
			flagValue: "/flag/path",
			want:      "/flag/path",
		},
		{
			name:      "yaml db_path second",
			cfg:       Config{History: HistoryConfig{DBPath: "/yaml/path"}, ConfigDir: "/proj/.srcmetrics"},
			flagValue: "",
			want:      "/yaml/path",
		},
		{
			name:      "config dir default",
			cfg:       Config{ConfigDir: "/proj/.srcmetrics"},
			flagValue: "",
			want:      "/proj/.srcmetrics/history.db",
		},
		{
			name:      "all empty",
			cfg:       Config{},
			flagValue: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.ResolveHistoryPath(tt.flagValue)
			if got != tt.want {
				t.Errorf("ResolveHistoryPath(%q) = %q, want %q", tt.flagValue, got, tt.want)
			}
		})
	}
}

func TestWriteConfigLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ProjectDirName)
	if err := os.Mkdir(projectDir, 0755); err != nil {
		t.Fatalf("create %s: %v", ProjectDirName, err)
	}

	cfg := Default()
	cfg.Project.Name = "roundtrip"
	cfg.Scan.Exclude = []string{"node_modules/", ".git/"}
	cfg.Scan.FollowSymlinks = false
	cfg.History.Enabled = false

	path := filepath.Join(projectDir, ProjectConfigFile)
	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !contains(string(raw), "# srcmetrics configuration") {
		t.Error("written config is missing the header comment")
	}
	// Multi-word keys must serialize under their snake_case names.
	if !contains(string(raw), "follow_symlinks") {
		t.Errorf("written config missing follow_symlinks key:\n%s", raw)
	}

	chdir(t, tmpDir)

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Project.Name != "roundtrip" {
		t.Errorf("Project.Name = %q, want %q", loaded.Project.Name, "roundtrip")
	}
	if len(loaded.Scan.Exclude) != 2 || loaded.Scan.Exclude[1] != ".git/" {
		t.Errorf("Scan.Exclude = %v, want [node_modules/ .git/]", loaded.Scan.Exclude)
	}
	if loaded.Scan.FollowSymlinks {
		t.Error("Scan.FollowSymlinks = true, want false after round trip")
	}
	if loaded.History.Enabled {
		t.Error("History.Enabled = true, want false after round trip")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
