package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"premap/internal/diagfmt"
	"premap/internal/driver"
	"premap/internal/observ"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments [flags] <file|->",
	Short: "List the segments declared by line directives",
	Args:  cobra.ExactArgs(1),
	RunE:  runSegments,
}

func init() {
	addInputFlags(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.plain {
		return errors.New("segments: --plain ignores directives, there is nothing to list")
	}

	timer := observ.NewTimer()
	in, err := driver.Load(cmd.Context(), args[0], s.codemapOptions(), timer)
	if err != nil {
		if in == nil {
			return err
		}
		return reportLoadFailure(cmd, s, in, err)
	}

	out := cmd.OutOrStdout()
	switch s.format {
	case "json":
		err = diagfmt.FormatSegmentsJSON(out, in.Codemap)
	default:
		err = diagfmt.FormatSegmentsPretty(out, in.Codemap, s.prettyOpts(os.Stdout))
	}
	if err != nil {
		return fmt.Errorf("failed to format segments: %w", err)
	}
	printTimings(cmd, s, timer)
	return nil
}
