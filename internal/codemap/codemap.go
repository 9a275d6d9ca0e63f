package codemap

import (
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"

	"premap/internal/source"
)

// Options tune directive recognition.
type Options struct {
	// Marker opens a directive; DefaultMarker when empty.
	Marker string
}

func (o Options) marker() string {
	if o.Marker == "" {
		return DefaultMarker
	}
	return o.Marker
}

// Validate reports whether the marker can be used.
func (o Options) Validate() error {
	if m := o.marker(); !validMarker(m) {
		return fmt.Errorf("%w: %q", ErrInvalidMarker, m)
	}
	return nil
}

// Codemap maps offsets of a flattened (preprocessed) buffer back to the
// files and lines its directives declare. It is immutable once built and
// safe for concurrent use.
type Codemap struct {
	content  []byte
	lines    source.LineTable
	segments []Segment
	marker   string
	flags    source.FileFlags
}

// New builds a codemap for content using DefaultMarker.
// The codemap keeps content; the caller must not modify it afterwards.
func New(content []byte) (*Codemap, error) {
	return NewWithOptions(content, Options{})
}

// NewWithOptions builds a codemap for content.
func NewWithOptions(content []byte, opts Options) (*Codemap, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	marker := opts.marker()
	contentLen, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(content))
	}

	lines := source.BuildLineTable(content)
	directives, err := scanDirectives(content, lines, []byte(marker))
	if err != nil {
		return nil, err
	}
	return &Codemap{
		content:  content,
		lines:    lines,
		segments: buildSegments(contentLen, lines, directives),
		marker:   marker,
	}, nil
}

// Open reads path, normalizes BOM and CRLF, and builds its codemap.
// Offsets refer to the normalized buffer; Flags reports what was changed.
func Open(path string, opts Options) (*Codemap, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, flags := source.Normalize(content)
	cm, err := NewWithOptions(content, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cm.flags = flags
	return cm, nil
}

// Flags reports the normalization Open applied; zero for New.
func (c *Codemap) Flags() source.FileFlags {
	return c.flags
}

// Content returns the flattened buffer. Do not modify it.
func (c *Codemap) Content() []byte {
	return c.content
}

// Lines returns the flattened line table. Do not modify it.
func (c *Codemap) Lines() source.LineTable {
	return c.lines
}

// Segments returns the segments in buffer order. Do not modify the slice.
func (c *Codemap) Segments() []Segment {
	return c.segments
}

// Marker returns the directive marker the codemap was built with.
func (c *Codemap) Marker() string {
	return c.marker
}

// Segment returns the segment with the given ID.
func (c *Codemap) Segment(id SegmentID) (*Segment, error) {
	if int(id) >= len(c.segments) {
		return nil, fmt.Errorf("%w: %d", ErrSegmentMissing, id)
	}
	return &c.segments[id], nil
}

// SegmentFor returns the segment owning off. A boundary offset belongs to
// the segment starting there; offsets at or past the end of the buffer
// clamp to the last segment.
func (c *Codemap) SegmentFor(off uint32) SegmentID {
	// концы сегментов неубывающие: первый с End > off и есть владелец
	i := sort.Search(len(c.segments), func(i int) bool {
		return c.segments[i].Bytes.End > off
	})
	if i == len(c.segments) {
		i = len(c.segments) - 1
	}
	return SegmentID(i) //nolint:gosec // segment count is bounded by the uint32 content length
}

// Name returns the filename declared for the segment; "" when unknown.
func (c *Codemap) Name(id SegmentID) (string, error) {
	seg, err := c.Segment(id)
	if err != nil {
		return "", err
	}
	return string(seg.Name.Slice(c.content)), nil
}

// Source returns the whole flattened buffer; spans of every segment index it.
func (c *Codemap) Source(id SegmentID) ([]byte, error) {
	if _, err := c.Segment(id); err != nil {
		return nil, err
	}
	return c.content, nil
}

// LineIndex returns the 0-based original line index of off within segment
// id. Offsets at or past the segment end report the segment's last line.
func (c *Codemap) LineIndex(id SegmentID, off uint32) (int, error) {
	seg, err := c.Segment(id)
	if err != nil {
		return 0, err
	}
	if off >= seg.Bytes.End {
		return seg.LastLine(), nil
	}
	if off < seg.Bytes.Start {
		return 0, &OffsetError{Segment: id, Offset: off, Start: seg.Bytes.Start}
	}
	return seg.Original(c.lines.Find(off)), nil
}

// LineRange returns the byte span (newline excluded) of original line
// index line within segment id. The empty segment that follows a directive
// on the last line answers its starting line with the empty span at EOF.
func (c *Codemap) LineRange(id SegmentID, line int) (source.Span, error) {
	seg, err := c.Segment(id)
	if err != nil {
		return source.Span{}, err
	}
	flat := line + seg.Offset
	if id > 0 && seg.Lines.Len() == 0 && flat == seg.Lines.Start && flat == len(c.lines) {
		// пустой хвост после последней директивы: строка, которая началась бы в EOF
		return source.Span{Start: seg.Bytes.Start, End: seg.Bytes.Start}, nil
	}
	if flat < 0 || flat >= len(c.lines) {
		return source.Span{}, &LineError{Given: line, Max: len(c.lines) - 1 - seg.Offset}
	}
	return c.lines[flat], nil
}

// PrimaryLabel attaches span to the segment owning its start.
func (c *Codemap) PrimaryLabel(span source.Span) Label {
	return LabelFor(c, LabelPrimary, span)
}

// SecondaryLabel attaches span to the segment owning its start.
func (c *Codemap) SecondaryLabel(span source.Span) Label {
	return LabelFor(c, LabelSecondary, span)
}
