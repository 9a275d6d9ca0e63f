package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"premap/internal/codemap"
)

// CheckCodemapInvariants runs the structural invariants of a built codemap:
// 1) segments are contiguous and cover [0, len(content)]
// 2) line ranges are contiguous and cover the whole line table
// 3) SegmentFor agrees with a linear scan for every offset in [0, len]
// 4) Locate resolves every offset; only an empty buffer fails, with a LineError
func CheckCodemapInvariants(cm *codemap.Codemap) error {
	if cm == nil {
		return fmt.Errorf("nil codemap")
	}
	segs := cm.Segments()
	if len(segs) == 0 {
		return fmt.Errorf("codemap has no segments")
	}
	contentLen, err := safecast.Conv[uint32](len(cm.Content()))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) байты без дыр
	if segs[0].Bytes.Start != 0 {
		return fmt.Errorf("first segment starts at %d", segs[0].Bytes.Start)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Bytes.Start != segs[i-1].Bytes.End {
			return fmt.Errorf("gap between segments %d and %d: %v %v", i-1, i, segs[i-1].Bytes, segs[i].Bytes)
		}
		if segs[i].Bytes.End < segs[i].Bytes.Start {
			return fmt.Errorf("segment %d is inverted: %v", i, segs[i].Bytes)
		}
	}
	if last := segs[len(segs)-1].Bytes.End; last != contentLen {
		return fmt.Errorf("segments end at %d, content has %d bytes", last, contentLen)
	}

	// 2) строки без дыр
	if segs[0].Lines.Start != 0 {
		return fmt.Errorf("first segment starts at line %d", segs[0].Lines.Start)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Lines.Start != segs[i-1].Lines.End {
			return fmt.Errorf("line gap between segments %d and %d", i-1, i)
		}
	}
	if last := segs[len(segs)-1].Lines.End; last != cm.Lines().Len() {
		return fmt.Errorf("segments end at line %d, line table has %d", last, cm.Lines().Len())
	}

	// 3) + 4)
	for off := uint32(0); off <= contentLen; off++ {
		got := cm.SegmentFor(off)
		if want := linearSegmentFor(segs, off); got != want {
			return fmt.Errorf("SegmentFor(%d) = %d, linear scan says %d", off, got, want)
		}
		if _, err := codemap.Locate(cm, off); err != nil {
			var le *codemap.LineError
			if contentLen > 0 || !errors.As(err, &le) {
				return fmt.Errorf("Locate(%d): %w", off, err)
			}
		}
	}
	return nil
}

func linearSegmentFor(segs []codemap.Segment, off uint32) codemap.SegmentID {
	for i, s := range segs {
		if s.Bytes.End > off {
			return codemap.SegmentID(i) //nolint:gosec // bounded by the segment count
		}
	}
	return codemap.SegmentID(len(segs) - 1) //nolint:gosec // bounded by the segment count
}
