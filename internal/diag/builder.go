package diag

import "premap/internal/source"

func New(sev Severity) Diagnostic {
	return Diagnostic{Severity: sev}
}

func Bug() Diagnostic     { return New(SevBug) }
func Error() Diagnostic   { return New(SevError) }
func Warning() Diagnostic { return New(SevWarning) }
func Note() Diagnostic    { return New(SevNote) }
func Help() Diagnostic    { return New(SevHelp) }

// NewError builds an error with code and message in one call.
func NewError(code Code, msg string) Diagnostic {
	return Error().WithCode(code).WithMessage(msg)
}

func (d Diagnostic) WithCode(code Code) Diagnostic {
	d.Code = code
	return d
}

func (d Diagnostic) WithMessage(msg string) Diagnostic {
	d.Message = msg
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], note)
	return d
}

// WithPrimaryLabel marks span as the main location; msg may be empty.
func (d Diagnostic) WithPrimaryLabel(span source.Span, msg string) Diagnostic {
	return d.withLabel(LabelPrimary, span, msg)
}

// WithSecondaryLabel adds context at span; msg may be empty.
func (d Diagnostic) WithSecondaryLabel(span source.Span, msg string) Diagnostic {
	return d.withLabel(LabelSecondary, span, msg)
}

func (d Diagnostic) withLabel(style LabelStyle, span source.Span, msg string) Diagnostic {
	// cap = len: цепочки от общего префикса не делят массив
	d.Labels = append(d.Labels[:len(d.Labels):len(d.Labels)], Label{Style: style, Message: source.At(msg, span)})
	return d
}
