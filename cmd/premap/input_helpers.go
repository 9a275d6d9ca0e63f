package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"premap/internal/source"
)

// addInputFlags registers the flags shared by commands that read one input.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("marker", "#line", "directive marker")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func parseOffset(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return uint32(v), nil
}

func parseOffsets(args []string) ([]uint32, error) {
	out := make([]uint32, 0, len(args))
	for _, a := range args {
		off, err := parseOffset(a)
		if err != nil {
			return nil, err
		}
		out = append(out, off)
	}
	return out, nil
}

// labelSpec is a span given on the command line as "A..B" or "A..B=message".
type labelSpec struct {
	span    source.Span
	message string
}

func parseLabelSpec(s string) (labelSpec, error) {
	rng, msg, _ := strings.Cut(s, "=")
	from, to, ok := strings.Cut(rng, "..")
	if !ok {
		return labelSpec{}, fmt.Errorf("invalid range %q (expected A..B[=message])", s)
	}
	start, err := parseOffset(from)
	if err != nil {
		return labelSpec{}, err
	}
	end, err := parseOffset(to)
	if err != nil {
		return labelSpec{}, err
	}
	if end < start {
		return labelSpec{}, fmt.Errorf("invalid range %q: end precedes start", s)
	}
	return labelSpec{span: source.Span{Start: start, End: end}, message: msg}, nil
}
