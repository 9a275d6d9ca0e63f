package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into a single buffer.
type Span struct {
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Contains reports whether off lies inside the half-open range.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves the span n bytes towards the buffer start.
// A shift past offset 0 leaves the span unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// ZeroideToStart collapses the span to its start position.
func (s Span) ZeroideToStart() Span {
	return Span{Start: s.Start, End: s.Start}
}

// ZeroideToEnd collapses the span to its end position.
func (s Span) ZeroideToEnd() Span {
	return Span{Start: s.End, End: s.End}
}

// Slice returns the bytes of content covered by the span, clamped to content.
func (s Span) Slice(content []byte) []byte {
	start, end := min(int(s.Start), len(content)), min(int(s.End), len(content))
	if end < start {
		end = start
	}
	return content[start:end]
}
