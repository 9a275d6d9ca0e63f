package diag

import (
	"premap/internal/codemap"
	"premap/internal/source"
)

type LabelStyle = codemap.LabelStyle

const (
	LabelPrimary   = codemap.LabelPrimary
	LabelSecondary = codemap.LabelSecondary
)

// Label points at a span of the flattened buffer. Its message may be empty.
type Label struct {
	Style   LabelStyle
	Message source.Located[string]
}

// Span returns the labelled bytes.
func (l Label) Span() source.Span {
	return l.Message.Span()
}

// Diagnostic is a message about a flattened buffer. Spans are flattened byte
// offsets; renderers resolve them to original files and lines through a
// codemap.Locator.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Labels   []Label
	Notes    []string
}

// Primary returns the span of the first primary label.
func (d *Diagnostic) Primary() (source.Span, bool) {
	for _, l := range d.Labels {
		if l.Style == LabelPrimary {
			return l.Span(), true
		}
	}
	return source.Span{}, false
}
