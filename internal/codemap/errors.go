package codemap

import (
	"errors"
	"fmt"

	"premap/internal/source"
)

var (
	// ErrLineNumberOverflow is returned when a directive declares a line
	// number that does not fit in an int.
	ErrLineNumberOverflow = errors.New("declared line number overflows")
	// ErrZeroLineNumber is returned for "#line 0": original lines are 1-based.
	ErrZeroLineNumber = errors.New("declared line number must be at least 1")
	// ErrInvalidMarker rejects markers that are empty or contain blanks.
	ErrInvalidMarker = errors.New("invalid directive marker")
	// ErrContentTooLarge is returned for buffers whose length does not fit in uint32.
	ErrContentTooLarge = errors.New("content too large")

	ErrSegmentMissing      = errors.New("segment not found")
	ErrOffsetBeforeSegment = errors.New("offset precedes segment start")
	ErrLineTooLarge        = errors.New("line index out of range")

	// ErrIndexMismatch means a cached index was built for different content or options.
	ErrIndexMismatch = errors.New("index does not match content")
	ErrCorruptIndex  = errors.New("corrupt index")
)

// DirectiveError reports a directive whose grammar matched but whose line
// number cannot be used. Construction fails as a whole.
type DirectiveError struct {
	Line int         // 0-based flattened line
	Span source.Span // the directive line
	Text string
	Err  error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("line %d: bad directive %q: %v", e.Line+1, e.Text, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// OffsetError is returned by LineIndex when the offset lies before the
// segment it was asked about; the caller picked the wrong segment.
type OffsetError struct {
	Segment SegmentID
	Offset  uint32
	Start   uint32
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset %d precedes start %d of segment %d", e.Offset, e.Start, e.Segment)
}

func (e *OffsetError) Unwrap() error { return ErrOffsetBeforeSegment }

// LineError is returned by LineRange for an original line index that maps
// outside the line table.
type LineError struct {
	Given int
	Max   int
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line index %d too large, maximum is %d", e.Given, e.Max)
}

func (e *LineError) Unwrap() error { return ErrLineTooLarge }
