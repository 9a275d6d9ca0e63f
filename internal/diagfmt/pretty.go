package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"premap/internal/codemap"
	"premap/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает заголовок <sev>[<CODE>]: <Message>, затем для
// каждой метки строку исходника в оригинальных координатах с подчёркиванием
// (^ для основной, - для вторичной), затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, loc codemap.Locator, opts PrettyOpts) error {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	p := newPrinter(loc, opts)
	for i := range n {
		if _, err := w.Write(p.render(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

type palette struct {
	bug, err, warning, note, help *color.Color
	gutter, secondary, bold       *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		bug:       mk(color.FgRed, color.Bold),
		err:       mk(color.FgRed, color.Bold),
		warning:   mk(color.FgYellow, color.Bold),
		note:      mk(color.FgGreen, color.Bold),
		help:      mk(color.FgCyan, color.Bold),
		gutter:    mk(color.FgBlue),
		secondary: mk(color.FgBlue),
		bold:      mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevBug:
		return p.bug
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	case diag.SevNote:
		return p.note
	default:
		return p.help
	}
}

type printer struct {
	loc  codemap.Locator
	opts PrettyOpts
	pal  palette
}

func newPrinter(loc codemap.Locator, opts PrettyOpts) *printer {
	return &printer{loc: loc, opts: opts, pal: newPalette(opts.Color)}
}

// render formats one diagnostic, trailing blank line included.
func (p *printer) render(d *diag.Diagnostic) []byte {
	var buf bytes.Buffer
	sev := p.pal.severity(d.Severity)

	head := d.Severity.String()
	if d.Code != diag.UnknownCode {
		head += "[" + d.Code.ID() + "]"
	}
	if d.Message != "" {
		fmt.Fprintf(&buf, "%s%s\n", sev.Sprint(head), p.pal.bold.Sprint(": "+d.Message))
	} else {
		fmt.Fprintln(&buf, sev.Sprint(head))
	}

	sites := make([]*site, len(d.Labels))
	maxLine := 0
	for i, l := range d.Labels {
		s, err := resolveSpan(p.loc, l.Span())
		if err != nil {
			continue
		}
		sites[i] = &s
		maxLine = max(maxLine, s.end.Line+1, s.start.Line+1)
	}
	width := len(strconv.Itoa(maxLine))
	pad := strings.Repeat(" ", width)

	for i, l := range d.Labels {
		if sites[i] == nil {
			msg := NoLocation
			if m := l.Message.Value(); m != "" {
				msg += ": " + m
			}
			fmt.Fprintf(&buf, "%s %s %s\n", pad, p.pal.gutter.Sprint("="), msg)
			continue
		}
		p.snippet(&buf, l, *sites[i], width, sev)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(&buf, "%s %s %s\n", pad, p.pal.gutter.Sprint("="), note)
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

func (p *printer) snippet(buf *bytes.Buffer, l diag.Label, s site, width int, sev *color.Color) {
	pad := strings.Repeat(" ", width)
	bar := p.pal.gutter.Sprint("│")
	name := displayName(s.start.Name, p.opts)
	fmt.Fprintf(buf, "%s %s %s:%d:%d\n", pad, p.pal.gutter.Sprint("┌─"), name, s.start.Line+1, s.start.Column+1)
	fmt.Fprintf(buf, "%s %s\n", pad, bar)

	marks := p.pal.secondary
	mark := "-"
	if l.Style == diag.LabelPrimary {
		marks, mark = sev, "^"
	}
	msg := l.Message.Value()

	src, err := p.loc.Source(s.start.Segment)
	if err != nil {
		fmt.Fprintf(buf, "%s %s %s\n", pad, p.pal.gutter.Sprint("="), NoLocation)
		return
	}
	text := func(loc codemap.Location) string {
		return string(loc.LineSpan.Slice(src))
	}

	line := text(s.start)
	endCol := len(line)
	if !s.multiline() && s.end.Segment == s.start.Segment {
		endCol = s.end.Column
	}
	p.sourceLine(buf, width, s.start.Line, line)
	under := p.underline(line, s.start.Column, endCol, mark)
	if !s.multiline() {
		p.markLine(buf, pad, bar, under, marks, msg)
		return
	}
	p.markLine(buf, pad, bar, under, marks, "")
	if s.end.Line > s.start.Line+1 {
		fmt.Fprintf(buf, "%s %s\n", pad, p.pal.gutter.Sprint("·"))
	}
	last := text(s.end)
	p.sourceLine(buf, width, s.end.Line, last)
	p.markLine(buf, pad, bar, p.underline(last, 0, s.end.Column, mark), marks, msg)
}

func (p *printer) sourceLine(buf *bytes.Buffer, width, line int, text string) {
	num := fmt.Sprintf("%*d", width, line+1)
	fmt.Fprintf(buf, "%s %s %s\n", p.pal.gutter.Sprint(num), p.pal.gutter.Sprint("│"), expandTabs(text, p.opts.tabWidth()))
}

func (p *printer) markLine(buf *bytes.Buffer, pad, bar, under string, c *color.Color, msg string) {
	indent := len(under) - len(strings.TrimLeft(under, " "))
	out := under[:indent] + c.Sprint(under[indent:])
	if msg != "" {
		out += " " + c.Sprint(msg)
	}
	fmt.Fprintf(buf, "%s %s %s\n", pad, bar, out)
}

// underline returns spaces up to column from, then marks through column to,
// both measured in display cells.
func (p *printer) underline(line string, from, to int, mark string) string {
	from = min(max(from, 0), len(line))
	to = min(max(to, from), len(line))
	tab := p.opts.tabWidth()
	lead := displayWidth(line[:from], tab)
	n := max(displayWidth(line[from:to], tab), 1)
	return strings.Repeat(" ", lead) + strings.Repeat(mark, n)
}

func displayWidth(s string, tab int) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tab
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func expandTabs(s string, tab int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tab))
}
