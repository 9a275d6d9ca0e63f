package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"premap/internal/codemap"
	"premap/internal/diagfmt"
)

const configFileName = "premap.toml"

type fileConfig struct {
	Directives directivesConfig `toml:"directives"`
	Output     outputConfig     `toml:"output"`
	Index      indexConfig      `toml:"index"`
}

type directivesConfig struct {
	Marker string `toml:"marker"`
}

type outputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
	TabWidth int    `toml:"tab_width"`
}

type indexConfig struct {
	Jobs     int    `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

// settings are the effective options of one command run: defaults, then
// premap.toml, then explicitly set flags.
type settings struct {
	configPath     string
	marker         string
	format         string
	color          string
	pathMode       diagfmt.PathMode
	tabWidth       int
	jobs           int
	cache          bool
	cacheDir       string
	maxDiagnostics int
	timings        bool
	plain          bool
}

func defaultSettings() settings {
	return settings{
		marker:         codemap.DefaultMarker,
		format:         "pretty",
		color:          "auto",
		pathMode:       diagfmt.PathModeAuto,
		tabWidth:       4,
		maxDiagnostics: 100,
	}
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// applyConfigFile decodes path and overrides s with every key it defines.
func (s *settings) applyConfigFile(path string) error {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	s.configPath = path
	if meta.IsDefined("directives", "marker") {
		s.marker = cfg.Directives.Marker
	}
	if meta.IsDefined("output", "format") {
		s.format = cfg.Output.Format
	}
	if meta.IsDefined("output", "color") {
		s.color = cfg.Output.Color
	}
	if meta.IsDefined("output", "path_mode") {
		mode, err := diagfmt.ParsePathMode(cfg.Output.PathMode)
		if err != nil {
			return fmt.Errorf("%s: [output].path_mode: %w", path, err)
		}
		s.pathMode = mode
	}
	if meta.IsDefined("output", "tab_width") {
		s.tabWidth = cfg.Output.TabWidth
	}
	if meta.IsDefined("index", "jobs") {
		s.jobs = cfg.Index.Jobs
	}
	if meta.IsDefined("index", "cache") {
		s.cache = cfg.Index.Cache
	}
	if meta.IsDefined("index", "cache_dir") {
		s.cacheDir = cfg.Index.CacheDir
		if s.cacheDir != "" && !filepath.IsAbs(s.cacheDir) {
			s.cacheDir = filepath.Join(filepath.Dir(path), s.cacheDir)
		}
	}
	if err := s.validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *settings) validate() error {
	if err := (codemap.Options{Marker: s.marker}).Validate(); err != nil {
		return err
	}
	switch s.format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json)", s.format)
	}
	switch s.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color value %q (expected auto|on|off)", s.color)
	}
	if s.tabWidth < 0 {
		return fmt.Errorf("tab width must not be negative, got %d", s.tabWidth)
	}
	if s.jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", s.jobs)
	}
	return nil
}

// loadSettings builds the settings for cmd. Only flags that were set on the
// command line override the configuration file.
func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return s, err
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		if err := s.applyConfigFile(configPath); err != nil {
			return s, err
		}
	}

	if flags.Changed("color") {
		if s.color, err = flags.GetString("color"); err != nil {
			return s, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.plain, err = flags.GetBool("plain"); err != nil {
		return s, fmt.Errorf("failed to get plain flag: %w", err)
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		if s.format, err = flags.GetString("format"); err != nil {
			return s, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Lookup("marker") != nil && flags.Changed("marker") {
		if s.marker, err = flags.GetString("marker"); err != nil {
			return s, fmt.Errorf("failed to get marker flag: %w", err)
		}
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Lookup("cache") != nil && flags.Changed("cache") {
		if s.cache, err = flags.GetBool("cache"); err != nil {
			return s, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Lookup("fullpath") != nil && flags.Changed("fullpath") {
		full, err := flags.GetBool("fullpath")
		if err != nil {
			return s, fmt.Errorf("failed to get fullpath flag: %w", err)
		}
		if full {
			s.pathMode = diagfmt.PathModeAbsolute
		}
	}
	return s, s.validate()
}

func (s settings) useColor(f *os.File) bool {
	return s.color == "on" || (s.color == "auto" && isTerminal(f))
}

func (s settings) prettyOpts(f *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:    s.useColor(f),
		PathMode: s.pathMode,
		TabWidth: s.tabWidth,
		Max:      s.maxDiagnostics,
	}
}

func (s settings) jsonOpts() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		Max:              s.maxDiagnostics,
		IncludeNotes:     true,
	}
}

func (s settings) codemapOptions() codemap.Options {
	return codemap.Options{Marker: s.marker}
}
