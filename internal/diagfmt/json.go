package diagfmt

import (
	"encoding/json"
	"io"

	"premap/internal/codemap"
	"premap/internal/diag"
)

// LocationJSON представляет местоположение в оригинальном файле для JSON.
// Позиции 1-based; Error заполняется, если позицию вычислить не удалось.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine int    `json:"start_line,omitempty"`
	StartCol  int    `json:"start_col,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndCol    int    `json:"end_col,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LabelJSON представляет метку диагностики для JSON
type LabelJSON struct {
	Style    string       `json:"style"`
	Message  string       `json:"message,omitempty"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code,omitempty"`
	Message  string      `json:"message"`
	Labels   []LabelJSON `json:"labels,omitempty"`
	Notes    []string    `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(l diag.Label, loc codemap.Locator, opts JSONOpts) LocationJSON {
	span := l.Span()
	out := LocationJSON{StartByte: span.Start, EndByte: span.End}
	s, err := resolveSpan(loc, span)
	if err != nil {
		out.Error = NoLocation
		return out
	}
	out.File = displayName(s.start.Name, PrettyOpts{PathMode: opts.PathMode, BaseDir: opts.BaseDir})
	if opts.IncludePositions {
		out.StartLine = s.start.Line + 1
		out.StartCol = s.start.Column + 1
		out.EndLine = s.end.Line + 1
		out.EndCol = s.end.Column + 1
	}
	return out
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, loc codemap.Locator, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := &items[i]

		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Message:  d.Message,
		}
		if d.Code != diag.UnknownCode {
			diagJSON.Code = d.Code.ID()
		}
		for _, l := range d.Labels {
			diagJSON.Labels = append(diagJSON.Labels, LabelJSON{
				Style:    l.Style.String(),
				Message:  l.Message.Value(),
				Location: makeLocation(l, loc, opts),
			})
		}

		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = append([]string(nil), d.Notes...)
		}

		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, loc codemap.Locator, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, loc, opts)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
