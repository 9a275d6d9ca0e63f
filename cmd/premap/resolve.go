package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"premap/internal/diagfmt"
	"premap/internal/driver"
	"premap/internal/observ"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <file|-> <offset>...",
	Short: "Resolve byte offsets of a preprocessed file to name:line:col",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runResolve,
}

func init() {
	addInputFlags(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	offsets, err := parseOffsets(args[1:])
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	in, err := driver.Load(cmd.Context(), args[0], s.codemapOptions(), timer)
	if err != nil {
		if in == nil {
			return err
		}
		return reportLoadFailure(cmd, s, in, err)
	}

	loc := in.Locator(s.plain)
	phase := timer.Begin("resolve")
	out := cmd.OutOrStdout()
	switch s.format {
	case "json":
		err = diagfmt.FormatLocationsJSON(out, loc, offsets, s.prettyOpts(os.Stdout))
	default:
		err = diagfmt.FormatLocationsPretty(out, loc, offsets, s.prettyOpts(os.Stdout))
	}
	timer.End(phase, fmt.Sprintf("%d offsets", len(offsets)))
	if err != nil {
		return fmt.Errorf("failed to format locations: %w", err)
	}
	printTimings(cmd, s, timer)
	return nil
}
