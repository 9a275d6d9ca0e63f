package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"premap/internal/codemap"
	"premap/internal/diag"
	"premap/internal/source"
)

const readme = `#line 1 "top_file"
a first statement;
another one

#line 1 "included_file"
continue...

#line 5
another line
the last one
`

func mustCodemap(t *testing.T, content string) *codemap.Codemap {
	t.Helper()
	cm, err := codemap.New([]byte(content))
	if err != nil {
		t.Fatalf("codemap.New: %v", err)
	}
	return cm
}

func spanOf(t *testing.T, content, needle string) source.Span {
	t.Helper()
	i := strings.Index(content, needle)
	if i < 0 {
		t.Fatalf("%q not found", needle)
	}
	return source.Span{Start: uint32(i), End: uint32(i + len(needle))}
}

func renderOne(t *testing.T, loc codemap.Locator, d diag.Diagnostic, opts PrettyOpts) string {
	t.Helper()
	bag := diag.NewBag(0)
	bag.Add(d)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, loc, opts); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	return buf.String()
}

func TestPrettyResolvesThroughCodemap(t *testing.T) {
	cm := mustCodemap(t, readme)
	d := diag.Note().
		WithMessage("this is just an example").
		WithPrimaryLabel(spanOf(t, readme, "last"), "do you see that ?").
		WithSecondaryLabel(spanOf(t, readme, "first"), "is it related to this ?")

	want := strings.Join([]string{
		"note: this is just an example",
		"  ┌─ included_file:6:5",
		"  │",
		"6 │ the last one",
		"  │     ^^^^ do you see that ?",
		"  ┌─ top_file:1:3",
		"  │",
		"1 │ a first statement;",
		"  │   ----- is it related to this ?",
		"",
		"",
	}, "\n")

	if got := renderOne(t, cm, d, PrettyOpts{}); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyMultiline(t *testing.T) {
	content := "#line 10 \"m.c\"\nabc\ndef\nghi\n"
	cm := mustCodemap(t, content)
	span := source.Span{Start: uint32(strings.Index(content, "bc")), End: uint32(strings.Index(content, "hi") + 1)}
	d := diag.Error().WithCode(diag.UserReport).WithMessage("spans lines").WithPrimaryLabel(span, "here")

	want := strings.Join([]string{
		"error[USR9000]: spans lines",
		"   ┌─ m.c:10:2",
		"   │",
		"10 │ abc",
		"   │  ^^",
		"   ·",
		"12 │ ghi",
		"   │ ^^ here",
		"",
		"",
	}, "\n")
	if got := renderOne(t, cm, d, PrettyOpts{}); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyEOFAfterTrailingDirective(t *testing.T) {
	content := "x\n#line 5 \"a.h\"\n"
	cm := mustCodemap(t, content)
	end := uint32(len(content)) //nolint:gosec // small test buffer
	d := diag.Error().
		WithMessage("unexpected end of input").
		WithPrimaryLabel(source.Span{Start: end, End: end}, "here")

	got := renderOne(t, cm, d, PrettyOpts{})
	if strings.Contains(got, NoLocation) {
		t.Fatalf("EOF should resolve:\n%s", got)
	}
	if !strings.Contains(got, "a.h:5:1") {
		t.Errorf("expected a.h:5:1 in output:\n%s", got)
	}
}

func TestPrettyNotesAndMissingLocation(t *testing.T) {
	empty := codemap.NewSingleFile("empty.c", nil)
	d := diag.Warning().
		WithMessage("nothing to point at").
		WithPrimaryLabel(source.Span{}, "here").
		WithNote("first note")

	want := strings.Join([]string{
		"warning: nothing to point at",
		"  = " + NoLocation + ": here",
		"  = first note",
		"",
		"",
	}, "\n")
	if got := renderOne(t, empty, d, PrettyOpts{}); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyTabsAndEmptySpan(t *testing.T) {
	content := "a\tbc\n"
	f := codemap.NewSingleFile("t.c", []byte(content))
	d := diag.Help().
		WithPrimaryLabel(spanOf(t, content, "bc"), "").
		WithSecondaryLabel(source.Span{Start: 1, End: 1}, "tab")

	out := renderOne(t, f, d, PrettyOpts{TabWidth: 4})
	for _, want := range []string{
		"help\n",
		"1 │ a    bc\n",
		"  │      ^^\n",
		"  │  - tab\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrettyPathModes(t *testing.T) {
	content := "#line 3 \"/home/user/project/src/generated/deeply/nested/input.c\"\nx\n"
	cm := mustCodemap(t, content)
	d := diag.Error().WithMessage("m").WithPrimaryLabel(spanOf(t, content, "x"), "")

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{name: "absolute", mode: PathModeAbsolute, want: "/home/user/project/src/generated/deeply/nested/input.c:3:1"},
		{name: "relative", mode: PathModeRelative, want: "─ src/generated/deeply/nested/input.c:3:1"},
		{name: "basename", mode: PathModeBasename, want: "─ input.c:3:1"},
		{name: "auto long absolute", mode: PathModeAuto, want: "─ input.c:3:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderOne(t, cm, d, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}
}

func TestPrettyMax(t *testing.T) {
	cm := mustCodemap(t, readme)
	bag := diag.NewBag(0)
	bag.Add(diag.Error().WithMessage("one"))
	bag.Add(diag.Error().WithMessage("two"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, cm, PrettyOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "two") {
		t.Errorf("Max not honoured:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	cm := mustCodemap(t, readme)
	d := diag.Error().WithMessage("colored").WithPrimaryLabel(spanOf(t, readme, "last"), "")
	if out := renderOne(t, cm, d, PrettyOpts{Color: true}); !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escapes with Color on:\n%q", out)
	}
	if out := renderOne(t, cm, d, PrettyOpts{}); strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected ANSI escapes with Color off:\n%q", out)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParsePathMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
