package codemap

import (
	"bytes"
	"errors"
	"strconv"

	"premap/internal/source"
)

// DefaultMarker is the token that opens a line-marker directive.
const DefaultMarker = "#line"

// Directive is one recognized line marker.
type Directive struct {
	Line      int    // index into the line table
	ByteIndex uint32 // first byte of the directive line
	Offset    int    // flattened line - Offset = original line index
	Name      source.Span
	HasName   bool
}

// scanDirectives visits lines in order, so the result is sorted by line.
func scanDirectives(content []byte, lines source.LineTable, marker []byte) ([]Directive, error) {
	var out []Directive
	for l, span := range lines {
		line := content[span.Start:span.End]
		if !bytes.Contains(line, marker) {
			continue
		}
		m, ok := parseDirective(line, marker)
		if !ok {
			continue
		}
		n, err := parseLineNumber(m.number)
		if err != nil {
			return nil, &DirectiveError{Line: l, Span: span, Text: string(bytes.TrimSpace(line)), Err: err}
		}
		d := Directive{
			Line:      l,
			ByteIndex: span.Start,
			Offset:    l + 2 - n,
		}
		if m.hasName {
			d.Name = m.name.ShiftRight(span.Start)
			d.HasName = true
		}
		out = append(out, d)
	}
	return out, nil
}

type directiveMatch struct {
	number  []byte
	name    source.Span // relative to the line start
	hasName bool
}

// parseDirective matches one line against
//
//	<marker> blank+ digit+ [blank+ '"' text '"']
//
// after trimming surrounding whitespace. Anything else is plain content.
// The name is the raw text between the first and the closing quote: inner
// quotes and backslashes are kept as written.
func parseDirective(line, marker []byte) (directiveMatch, bool) {
	start, end := 0, len(line)
	for start < end && isTrim(line[start]) {
		start++
	}
	for end > start && isTrim(line[end-1]) {
		end--
	}
	if !bytes.HasPrefix(line[start:end], marker) {
		return directiveMatch{}, false
	}

	i := skipBlanks(line, start+len(marker), end)
	if i == start+len(marker) {
		return directiveMatch{}, false
	}
	j := i
	for j < end && line[j] >= '0' && line[j] <= '9' {
		j++
	}
	if j == i {
		return directiveMatch{}, false
	}
	m := directiveMatch{number: line[i:j]}
	if j == end {
		return m, true
	}

	k := skipBlanks(line, j, end)
	if k == j || line[k] != '"' {
		return directiveMatch{}, false
	}
	// закрывающая кавычка обязана быть последним символом
	if end-1 <= k || line[end-1] != '"' {
		return directiveMatch{}, false
	}
	m.name = source.Span{Start: uint32(k + 1), End: uint32(end - 1)} //nolint:gosec // bounded by the line length
	m.hasName = true
	return m, true
}

func parseLineNumber(digits []byte) (int, error) {
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrLineNumberOverflow
		}
		return 0, err
	}
	if n == 0 {
		return 0, ErrZeroLineNumber
	}
	return n, nil
}

func skipBlanks(line []byte, i, end int) int {
	for i < end && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func isTrim(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func validMarker(marker string) bool {
	if marker == "" {
		return false
	}
	for i := 0; i < len(marker); i++ {
		if isTrim(marker[i]) || marker[i] == '\n' {
			return false
		}
	}
	return true
}
