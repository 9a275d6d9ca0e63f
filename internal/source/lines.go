package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LineTable holds one span per line of a buffer, in appearance order.
// Each span runs from the first byte of the line up to (not including) its
// terminating newline; an unterminated last line ends at the buffer length.
// An empty buffer has an empty table.
type LineTable []Span

// BuildLineTable scans content once and returns its line spans.
func BuildLineTable(content []byte) LineTable {
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	out := make(LineTable, 0, 1+len(content)/32)
	var start uint32
	for i, b := range content {
		if b != '\n' {
			continue
		}
		nl := uint32(i) //nolint:gosec // i < lenContent, which fits in uint32
		out = append(out, Span{Start: start, End: nl})
		start = nl + 1
	}
	// хвост без \n: всё равно отдельная строка
	if start < lenContent {
		out = append(out, Span{Start: start, End: lenContent})
	}
	return out
}

// Len returns the number of lines.
func (t LineTable) Len() int {
	return len(t)
}

// Find returns the index of the line that owns off: the last line whose start
// is <= off. The newline byte of a line and any offset past the last line
// start resolve to that line. Returns -1 for an empty table.
func (t LineTable) Find(off uint32) int {
	// бинпоиск: наибольший i, для которого t[i].Start <= off
	lo, hi := 0, len(t)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if t[mid].Start <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

// LineCol converts off into a 1-based line/column pair using byte columns.
func (t LineTable) LineCol(off uint32) LineCol {
	line := t.Find(off)
	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineNo, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: lineNo, Col: off - t[line].Start + 1}
}
