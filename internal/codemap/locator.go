package codemap

import (
	"fmt"

	"fortio.org/safecast"

	"premap/internal/source"
)

// Locator is what a diagnostic renderer needs from a source of coordinates.
// *Codemap and *SingleFile implement it.
type Locator interface {
	SegmentFor(off uint32) SegmentID
	Name(id SegmentID) (string, error)
	Source(id SegmentID) ([]byte, error)
	LineIndex(id SegmentID, off uint32) (int, error)
	LineRange(id SegmentID, line int) (source.Span, error)
}

var (
	_ Locator = (*Codemap)(nil)
	_ Locator = (*SingleFile)(nil)
)

// SingleFile is a Locator for a buffer without directives: one segment,
// one name, identity line numbering.
type SingleFile struct {
	name    string
	content []byte
	lines   source.LineTable
}

// NewSingleFile wraps content under name.
func NewSingleFile(name string, content []byte) *SingleFile {
	return &SingleFile{name: name, content: content, lines: source.BuildLineTable(content)}
}

func (f *SingleFile) SegmentFor(uint32) SegmentID { return 0 }

func (f *SingleFile) Name(id SegmentID) (string, error) {
	if id != 0 {
		return "", fmt.Errorf("%w: %d", ErrSegmentMissing, id)
	}
	return f.name, nil
}

func (f *SingleFile) Source(id SegmentID) ([]byte, error) {
	if id != 0 {
		return nil, fmt.Errorf("%w: %d", ErrSegmentMissing, id)
	}
	return f.content, nil
}

func (f *SingleFile) LineIndex(id SegmentID, off uint32) (int, error) {
	if id != 0 {
		return 0, fmt.Errorf("%w: %d", ErrSegmentMissing, id)
	}
	return max(f.lines.Find(off), 0), nil
}

func (f *SingleFile) LineRange(id SegmentID, line int) (source.Span, error) {
	if id != 0 {
		return source.Span{}, fmt.Errorf("%w: %d", ErrSegmentMissing, id)
	}
	if line < 0 || line >= len(f.lines) {
		return source.Span{}, &LineError{Given: line, Max: len(f.lines) - 1}
	}
	return f.lines[line], nil
}

// LabelStyle distinguishes the main span of a diagnostic from context spans.
type LabelStyle uint8

const (
	LabelPrimary LabelStyle = iota
	LabelSecondary
)

func (s LabelStyle) String() string {
	if s == LabelPrimary {
		return "primary"
	}
	return "secondary"
}

// Label is a span tied to the segment that owns its start.
type Label struct {
	Style   LabelStyle
	Segment SegmentID
	Span    source.Span
}

// LabelFor resolves the owning segment of span.Start.
func LabelFor(loc Locator, style LabelStyle, span source.Span) Label {
	return Label{Style: style, Segment: loc.SegmentFor(span.Start), Span: span}
}

// Location is a fully resolved position in original coordinates.
type Location struct {
	Segment  SegmentID
	Name     string
	Line     int         // 0-based original line index
	Column   int         // 0-based byte column within the line
	LineSpan source.Span // flattened bytes of the line, newline excluded
}

// String renders name:line:col with 1-based numbers.
func (l Location) String() string {
	name := l.Name
	if name == "" {
		name = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Line+1, l.Column+1)
}

// Locate resolves off through loc. Offsets past the end of their line (the
// newline byte, or end of file) report the column just after the line.
func Locate(loc Locator, off uint32) (Location, error) {
	id := loc.SegmentFor(off)
	name, err := loc.Name(id)
	if err != nil {
		return Location{}, err
	}
	line, err := loc.LineIndex(id, off)
	if err != nil {
		return Location{}, err
	}
	span, err := loc.LineRange(id, line)
	if err != nil {
		return Location{}, err
	}
	col := uint32(0)
	if off > span.Start {
		col = min(off, span.End) - span.Start
	}
	column, err := safecast.Conv[int](col)
	if err != nil {
		return Location{}, fmt.Errorf("column overflow: %w", err)
	}
	return Location{Segment: id, Name: name, Line: line, Column: column, LineSpan: span}, nil
}
