package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"premap/internal/diagfmt"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, configFileName)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestApplyConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, s settings)
	}{
		{
			name:    "empty keeps defaults",
			content: "",
			check: func(t *testing.T, s settings) {
				if s.marker != "#line" || s.format != "pretty" || s.tabWidth != 4 {
					t.Errorf("defaults changed: %+v", s)
				}
			},
		},
		{
			name: "all sections",
			content: `
[directives]
marker = "#"

[output]
format = "json"
color = "off"
path_mode = "basename"
tab_width = 8

[index]
jobs = 3
cache = true
cache_dir = "cache"
`,
			check: func(t *testing.T, s settings) {
				if s.marker != "#" || s.format != "json" || s.color != "off" {
					t.Errorf("unexpected settings %+v", s)
				}
				if s.pathMode != diagfmt.PathModeBasename || s.tabWidth != 8 {
					t.Errorf("unexpected output settings %+v", s)
				}
				if s.jobs != 3 || !s.cache || !filepath.IsAbs(s.cacheDir) || filepath.Base(s.cacheDir) != "cache" {
					t.Errorf("unexpected index settings %+v", s)
				}
			},
		},
		{name: "bad marker", content: "[directives]\nmarker = \"# line\"\n", wantErr: "invalid directive marker"},
		{name: "bad format", content: "[output]\nformat = \"xml\"\n", wantErr: "unknown format"},
		{name: "bad path mode", content: "[output]\npath_mode = \"weird\"\n", wantErr: "path_mode"},
		{name: "negative jobs", content: "[index]\njobs = -1\n", wantErr: "jobs"},
		{name: "unknown key", content: "[output]\nwidth = 3\n", wantErr: "unknown keys: output.width"},
		{name: "broken toml", content: "[output\n", wantErr: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			s := defaultSettings()
			err := s.applyConfigFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.configPath != path {
				t.Errorf("configPath = %q", s.configPath)
			}
			tt.check(t, s)
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("config not found: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("found %q, want %q", got, want)
	}
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("color", "auto", "")
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("timings", false, "")
	cmd.Flags().Int("max-diagnostics", 100, "")
	cmd.Flags().Bool("plain", false, "")
	addInputFlags(cmd)
	cmd.Flags().Int("jobs", 0, "")
	return cmd
}

func TestLoadSettingsFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[directives]\nmarker = \"#\"\n[output]\nformat = \"json\"\n[index]\njobs = 2\n")

	cmd := newSettingsCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--format", "pretty", "--plain"}); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if s.format != "pretty" {
		t.Errorf("flag should override file format, got %q", s.format)
	}
	if s.marker != "#" || s.jobs != 2 {
		t.Errorf("unset flags must not override the file: %+v", s)
	}
	if !s.plain {
		t.Error("plain flag lost")
	}
}

func TestLoadSettingsDiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[output]\ncolor = \"off\"\n")
	t.Chdir(dir)

	cmd := newSettingsCmd()
	if err := cmd.ParseFlags([]string{"--fullpath"}); err != nil {
		t.Fatal(err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if s.color != "off" || s.pathMode != diagfmt.PathModeAbsolute {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.useColor(os.Stdout) {
		t.Error("color must be off")
	}
}
