package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"premap/internal/diag"
	"premap/internal/diagfmt"
	"premap/internal/driver"
	"premap/internal/observ"
	"premap/internal/source"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] <file>...",
	Short: "Build codemaps for many preprocessed files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndex,
}

func init() {
	addInputFlags(indexCmd)
	indexCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	indexCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	indexCmd.Flags().Bool("cache", false, "reuse and store codemap indexes in the disk cache")
	indexCmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/premap)")
	indexCmd.Flags().Bool("clear-cache", false, "drop the disk cache before indexing")
}

type indexFileJSON struct {
	Path        string                    `json:"path"`
	Cached      bool                      `json:"cached"`
	ElapsedMS   float64                   `json:"elapsed_ms"`
	Segments    []diagfmt.SegmentOutput   `json:"segments,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	showUI, err := progressUIEnabled(uiValue)
	if err != nil {
		return err
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if cacheDir == "" {
		cacheDir = s.cacheDir
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	opts := driver.IndexOptions{
		Marker:         s.marker,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
	}
	if s.cache || clearCache {
		cache, err := driver.OpenDiskCache("premap", cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			if cache, err = driver.OpenDiskCache("premap", cache.Dir()); err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
		}
		if s.cache {
			opts.Cache = cache
		}
	}

	timer := observ.NewTimer()
	phase := timer.Begin("index")
	var (
		files   *source.FileSet
		results []driver.Result
	)
	if s.format == "pretty" && showUI {
		files, results, err = runIndexWithUI(cmd.Context(), "indexing", args, opts)
	} else {
		files, results, err = driver.IndexFiles(cmd.Context(), args, opts)
	}
	timer.End(phase, fmt.Sprintf("%d files", len(args)))
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	for _, r := range results {
		if r.Bag.HasErrors() {
			exitCode = 1
			break
		}
	}

	out := cmd.OutOrStdout()
	if s.format == "json" {
		return writeIndexJSON(out, results, s)
	}

	baseDir := files.BaseDir()
	ctx := &diag.Context{}
	for _, r := range results {
		printIndexSummary(out, r, s, baseDir)
		if r.Bag.Len() == 0 {
			continue
		}
		r.Bag.Sort()
		emitter := diagfmt.NewEmitter(out, r.Locator(), ctx, s.prettyOpts(os.Stdout))
		for _, d := range r.Bag.Items() {
			emitter.Report(d)
		}
		if err := emitter.Err(); err != nil {
			return fmt.Errorf("failed to write diagnostics: %w", err)
		}
	}
	if s.timings {
		diagfmt.NewEmitter(out, nil, nil, s.prettyOpts(os.Stdout)).Report(timer.Diagnostic())
	}
	status := diagfmt.NewEmitter(out, nil, ctx, s.prettyOpts(os.Stdout))
	_ = status.EmitStatus()
	return status.Err()
}

func printIndexSummary(w io.Writer, r driver.Result, s settings, baseDir string) {
	name := source.FormatPath(r.Path, s.pathMode.String(), baseDir)
	switch {
	case r.Codemap == nil:
		fmt.Fprintf(w, "%s: failed\n", name)
	case r.Cached:
		fmt.Fprintf(w, "%s: %d segments (cached, %s)\n", name, len(r.Codemap.Segments()), r.Elapsed.Round(time.Microsecond))
	default:
		fmt.Fprintf(w, "%s: %d segments (%s)\n", name, len(r.Codemap.Segments()), r.Elapsed.Round(time.Microsecond))
	}
}

func writeIndexJSON(w io.Writer, results []driver.Result, s settings) error {
	out := make([]indexFileJSON, 0, len(results))
	for _, r := range results {
		r.Bag.Sort()
		item := indexFileJSON{
			Path:        r.Path,
			Cached:      r.Cached,
			ElapsedMS:   float64(r.Elapsed) / float64(time.Millisecond),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, r.Locator(), s.jsonOpts()),
		}
		if r.Codemap != nil {
			item.Segments = diagfmt.BuildSegmentsOutput(r.Codemap)
		}
		out = append(out, item)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode index output: %w", err)
	}
	return nil
}
