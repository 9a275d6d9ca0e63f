package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"premap/internal/codemap"
)

type SegmentOutput struct {
	ID        codemap.SegmentID `json:"id"`
	Name      string            `json:"name"`
	StartByte uint32            `json:"start_byte"`
	EndByte   uint32            `json:"end_byte"`
	FirstLine int               `json:"first_line"` // 1-based, в нумерации файла-источника
	LineCount int               `json:"line_count"`
	Offset    int               `json:"offset"`
}

// LocationOutput is one resolved offset of `premap resolve`.
type LocationOutput struct {
	Offset  uint32            `json:"offset"`
	Segment codemap.SegmentID `json:"segment"`
	File    string            `json:"file,omitempty"`
	Line    int               `json:"line,omitempty"`
	Column  int               `json:"column,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func BuildSegmentsOutput(cm *codemap.Codemap) []SegmentOutput {
	out := make([]SegmentOutput, 0, len(cm.Segments()))
	for i, s := range cm.Segments() {
		id := codemap.SegmentID(i) //nolint:gosec // bounded by the segment count
		name, _ := cm.Name(id)
		out = append(out, SegmentOutput{
			ID:        id,
			Name:      name,
			StartByte: s.Bytes.Start,
			EndByte:   s.Bytes.End,
			FirstLine: s.Original(s.Lines.Start) + 1,
			LineCount: s.Lines.Len(),
			Offset:    s.Offset,
		})
	}
	return out
}

// FormatSegmentsPretty выводит сегменты в человекочитаемом формате
func FormatSegmentsPretty(w io.Writer, cm *codemap.Codemap, opts PrettyOpts) error {
	for _, s := range BuildSegmentsOutput(cm) {
		lines := "no lines"
		switch s.LineCount {
		case 0:
		case 1:
			lines = fmt.Sprintf("line %d", s.FirstLine)
		default:
			lines = fmt.Sprintf("lines %d-%d", s.FirstLine, s.FirstLine+s.LineCount-1)
		}
		if _, err := fmt.Fprintf(w, "%3d: %-24s bytes %d..%d, %s (offset %+d)\n",
			s.ID, displayName(s.Name, opts), s.StartByte, s.EndByte, lines, s.Offset); err != nil {
			return err
		}
	}
	return nil
}

// FormatSegmentsJSON выводит сегменты в JSON формате
func FormatSegmentsJSON(w io.Writer, cm *codemap.Codemap) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSegmentsOutput(cm))
}

// BuildLocationsOutput resolves every offset through loc.
func BuildLocationsOutput(loc codemap.Locator, offsets []uint32, opts PrettyOpts) []LocationOutput {
	out := make([]LocationOutput, 0, len(offsets))
	for _, off := range offsets {
		l, err := codemap.Locate(loc, off)
		if err != nil {
			out = append(out, LocationOutput{Offset: off, Segment: loc.SegmentFor(off), Error: err.Error()})
			continue
		}
		out = append(out, LocationOutput{
			Offset:  off,
			Segment: l.Segment,
			File:    displayName(l.Name, opts),
			Line:    l.Line + 1,
			Column:  l.Column + 1,
		})
	}
	return out
}

// FormatLocationsPretty prints "offset: file:line:col" per offset.
func FormatLocationsPretty(w io.Writer, loc codemap.Locator, offsets []uint32, opts PrettyOpts) error {
	for _, l := range BuildLocationsOutput(loc, offsets, opts) {
		var err error
		if l.Error != "" {
			_, err = fmt.Fprintf(w, "%d: %s (%s)\n", l.Offset, NoLocation, l.Error)
		} else {
			_, err = fmt.Fprintf(w, "%d: %s:%d:%d\n", l.Offset, l.File, l.Line, l.Column)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func FormatLocationsJSON(w io.Writer, loc codemap.Locator, offsets []uint32, opts PrettyOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildLocationsOutput(loc, offsets, opts))
}
