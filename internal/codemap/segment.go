package codemap

import (
	"fmt"

	"premap/internal/source"
)

// SegmentID identifies a segment of a Codemap (its position in order).
type SegmentID uint32

// LineRange is a half-open range of flattened line indices.
type LineRange struct {
	Start int
	End   int
}

func (r LineRange) Len() int {
	return r.End - r.Start
}

// Segment is a maximal run of the flattened buffer sharing one filename and
// one line offset.
type Segment struct {
	Name   source.Span // filename text inside the buffer; empty means unknown
	Bytes  source.Span
	Lines  LineRange
	Offset int // original line index = flattened line index - Offset
}

// Original converts a flattened line index into this segment's numbering.
func (s Segment) Original(line int) int {
	return line - s.Offset
}

// LastLine returns the original index of the segment's last line. An empty
// segment reports the line it would start with.
func (s Segment) LastLine() int {
	if s.Lines.Len() == 0 {
		return s.Original(s.Lines.Start)
	}
	return s.Original(s.Lines.End - 1)
}

// buildSegments partitions the buffer. Each directive line belongs to the
// segment before it, so byte and line ranges stay gapless.
func buildSegments(contentLen uint32, lines source.LineTable, directives []Directive) []Segment {
	if len(directives) == 0 {
		return []Segment{{
			Bytes: source.Span{Start: 0, End: contentLen},
			Lines: LineRange{Start: 0, End: len(lines)},
		}}
	}

	// first byte after line l, newline included
	after := func(l int) uint32 {
		if l+1 < len(lines) {
			return lines[l+1].Start
		}
		return contentLen
	}

	segments := make([]Segment, 0, len(directives)+1)
	first := directives[0]
	segments = append(segments, Segment{
		Bytes: source.Span{Start: 0, End: after(first.Line)},
		Lines: LineRange{Start: 0, End: first.Line + 1},
	})

	var current source.Span
	for i, d := range directives {
		if d.HasName {
			current = d.Name
		}
		end, endLine := contentLen, len(lines)
		if i+1 < len(directives) {
			next := directives[i+1]
			end, endLine = after(next.Line), next.Line+1
		}
		segments = append(segments, Segment{
			Name:   current,
			Bytes:  source.Span{Start: after(d.Line), End: end},
			Lines:  LineRange{Start: d.Line + 1, End: endLine},
			Offset: d.Offset,
		})
	}

	if err := checkSegments(segments, contentLen, len(lines)); err != nil {
		panic(fmt.Errorf("codemap: %w", err))
	}
	return segments
}

// checkSegments verifies ordering, contiguity and full coverage.
func checkSegments(segments []Segment, contentLen uint32, lineCount int) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments")
	}
	var prevByte uint32
	prevLine := 0
	for i, s := range segments {
		if s.Bytes.Start != prevByte || s.Bytes.End < s.Bytes.Start {
			return fmt.Errorf("segment %d bytes %s not contiguous with %d", i, s.Bytes, prevByte)
		}
		if s.Lines.Start != prevLine || s.Lines.End < s.Lines.Start {
			return fmt.Errorf("segment %d lines [%d,%d) not contiguous with %d", i, s.Lines.Start, s.Lines.End, prevLine)
		}
		if s.Name.End < s.Name.Start || s.Name.End > contentLen {
			return fmt.Errorf("segment %d name %s out of bounds", i, s.Name)
		}
		prevByte, prevLine = s.Bytes.End, s.Lines.End
	}
	if prevByte != contentLen || prevLine != lineCount {
		return fmt.Errorf("segments cover %d bytes/%d lines, want %d/%d", prevByte, prevLine, contentLen, lineCount)
	}
	return nil
}
