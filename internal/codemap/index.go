package codemap

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"

	"premap/internal/source"
)

// IndexSchema is bumped whenever Index changes shape.
const IndexSchema uint16 = 1

// Index is a serialisable snapshot of a codemap's segment table. It holds
// no text: restoring needs the same content it was built from.
type Index struct {
	Schema   uint16          `msgpack:"schema" json:"schema"`
	Hash     [32]byte        `msgpack:"hash" json:"-"`
	Marker   string          `msgpack:"marker" json:"marker"`
	Length   uint32          `msgpack:"length" json:"length"`
	Lines    int             `msgpack:"lines" json:"lines"`
	Segments []SegmentRecord `msgpack:"segments" json:"segments"`
}

// SegmentRecord is the flat form of a Segment.
type SegmentRecord struct {
	NameStart uint32 `msgpack:"ns" json:"name_start"`
	NameEnd   uint32 `msgpack:"ne" json:"name_end"`
	Start     uint32 `msgpack:"s" json:"start"`
	End       uint32 `msgpack:"e" json:"end"`
	LineStart int    `msgpack:"ls" json:"line_start"`
	LineEnd   int    `msgpack:"le" json:"line_end"`
	Offset    int    `msgpack:"o" json:"offset"`
}

// Index snapshots c.
func (c *Codemap) Index() Index {
	records := make([]SegmentRecord, len(c.segments))
	for i, s := range c.segments {
		records[i] = SegmentRecord{
			NameStart: s.Name.Start,
			NameEnd:   s.Name.End,
			Start:     s.Bytes.Start,
			End:       s.Bytes.End,
			LineStart: s.Lines.Start,
			LineEnd:   s.Lines.End,
			Offset:    s.Offset,
		}
	}
	return Index{
		Schema:   IndexSchema,
		Hash:     sha256.Sum256(c.content),
		Marker:   c.marker,
		Length:   uint32(len(c.content)), //nolint:gosec // checked in NewWithOptions
		Lines:    len(c.lines),
		Segments: records,
	}
}

// Restore rebuilds a codemap from content and a previously taken Index,
// skipping the directive scan. The index must match content and opts.
func Restore(content []byte, idx Index, opts Options) (*Codemap, error) {
	if idx.Schema != IndexSchema {
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrIndexMismatch, idx.Schema, IndexSchema)
	}
	if idx.Marker != opts.marker() {
		return nil, fmt.Errorf("%w: marker %q, want %q", ErrIndexMismatch, idx.Marker, opts.marker())
	}
	contentLen, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(content))
	}
	if idx.Length != contentLen || idx.Hash != sha256.Sum256(content) {
		return nil, fmt.Errorf("%w: content changed", ErrIndexMismatch)
	}

	lines := source.BuildLineTable(content)
	if idx.Lines != len(lines) {
		return nil, fmt.Errorf("%w: %d lines, content has %d", ErrCorruptIndex, idx.Lines, len(lines))
	}
	segments := make([]Segment, len(idx.Segments))
	for i, r := range idx.Segments {
		segments[i] = Segment{
			Name:   source.Span{Start: r.NameStart, End: r.NameEnd},
			Bytes:  source.Span{Start: r.Start, End: r.End},
			Lines:  LineRange{Start: r.LineStart, End: r.LineEnd},
			Offset: r.Offset,
		}
	}
	if err := checkSegments(segments, contentLen, len(lines)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	return &Codemap{
		content:  content,
		lines:    lines,
		segments: segments,
		marker:   opts.marker(),
	}, nil
}
