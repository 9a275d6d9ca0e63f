// Package codemap translates offsets of a preprocessed ("flattened") buffer
// back into the files and lines it was assembled from.
//
// Preprocessors such as m4 or cpp splice several inputs into one stream and
// leave line markers behind:
//
//	#line 42 "include/defs.h"
//
// A marker states that the line right after it is line 42 of the named file.
// A marker without a filename keeps the previous file and only renumbers.
//
// # Model
//
// The buffer is split into a line table (source.LineTable) and then into
// segments. A Segment is a contiguous byte and line range sharing one name
// and one offset, where
//
//	original line index = flattened line index - Offset
//
// Segments are ordered, gapless and cover the whole buffer. A marker line is
// owned by the segment before it; when the buffer starts with a marker, a
// one-line segment with no name holds it.
//
// Lines that look like markers but do not match the grammar exactly are
// ordinary text. A marker with an unusable number ("#line 0", or a number
// that overflows int) fails construction with a *DirectiveError.
//
// # Queries
//
// SegmentFor, LineIndex and LineRange are O(log n). Offsets at or beyond the
// end of the buffer clamp to the last segment and its last line, so that
// "end of file" diagnostics always resolve. LineRange reports a *LineError
// for indices outside the line table.
//
// Renderers depend on the Locator interface only; SingleFile implements it
// for buffers that should not be interpreted as preprocessed output.
//
// A built Codemap is immutable and may be shared between goroutines. Index
// and Restore let callers cache the segment table next to the content hash.
package codemap
