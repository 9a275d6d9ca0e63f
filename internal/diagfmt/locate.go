package diagfmt

import (
	"premap/internal/codemap"
	"premap/internal/source"
)

// NoLocation replaces a position the locator could not resolve.
const NoLocation = "<no precise location available>"

// site is a label span resolved to original coordinates. end.Column is
// exclusive.
type site struct {
	start codemap.Location
	end   codemap.Location
}

func (s site) multiline() bool {
	return s.end.Segment == s.start.Segment && s.end.Line > s.start.Line
}

func resolveSpan(loc codemap.Locator, span source.Span) (site, error) {
	start, err := codemap.Locate(loc, span.Start)
	if err != nil {
		return site{}, err
	}
	if span.End <= span.Start {
		return site{start: start, end: start}, nil
	}
	end, err := codemap.Locate(loc, span.End-1)
	if err != nil {
		return site{}, err
	}
	// колонка после последнего байта, но не дальше конца строки
	end.Column = min(end.Column+1, int(end.LineSpan.Len()))
	return site{start: start, end: end}, nil
}

func displayName(name string, opts PrettyOpts) string {
	if name == "" {
		return "<unknown>"
	}
	return source.FormatPath(name, opts.PathMode.String(), opts.BaseDir)
}
