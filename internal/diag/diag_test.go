package diag

import (
	"errors"
	"sync"
	"testing"

	"premap/internal/source"
)

func span(a, b uint32) source.Span {
	return source.Span{Start: a, End: b}
}

func TestBuilderChain(t *testing.T) {
	d := Note().
		WithMessage("this is just an example").
		WithPrimaryLabel(span(131, 135), "do you see that ?").
		WithSecondaryLabel(span(39, 47), "is it related to this ?").
		WithNote("first").
		WithNote("second")

	if d.Severity != SevNote || d.Code != UnknownCode {
		t.Fatalf("unexpected header %v %v", d.Severity, d.Code)
	}
	if len(d.Labels) != 2 || len(d.Notes) != 2 {
		t.Fatalf("expected 2 labels and 2 notes, got %d/%d", len(d.Labels), len(d.Notes))
	}
	if d.Labels[0].Style != LabelPrimary || d.Labels[1].Style != LabelSecondary {
		t.Errorf("label styles out of order: %+v", d.Labels)
	}
	if got := d.Labels[1].Message.Value(); got != "is it related to this ?" {
		t.Errorf("unexpected secondary message %q", got)
	}
	if p, ok := d.Primary(); !ok || p != span(131, 135) {
		t.Errorf("Primary() = %v %v", p, ok)
	}
}

func TestBuilderDoesNotShareLabels(t *testing.T) {
	base := Error().WithPrimaryLabel(span(0, 1), "")
	a := base.WithSecondaryLabel(span(2, 3), "a")
	b := base.WithSecondaryLabel(span(4, 5), "b")
	if a.Labels[1].Message.Value() != "a" || b.Labels[1].Message.Value() != "b" {
		t.Errorf("derived diagnostics share label storage: %+v / %+v", a.Labels, b.Labels)
	}
	if len(base.Labels) != 1 {
		t.Errorf("base diagnostic modified: %+v", base.Labels)
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		isError bool
	}{
		{"bug", SevBug, true},
		{"error", SevError, true},
		{"Warning", SevWarning, false},
		{"note", SevNote, false},
		{" help ", SevHelp, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || got.IsError() != tt.isError {
				t.Errorf("ParseSeverity(%q) = %v (error=%v)", tt.in, got, got.IsError())
			}
			if back, _ := ParseSeverity(got.String()); back != got {
				t.Errorf("String() does not parse back: %q", got.String())
			}
		})
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		id   string
	}{
		{DirBadLineNumber, "DIR1001"},
		{IOLoadFileError, "IO4001"},
		{IdxStale, "IDX5001"},
		{ObsTimings, "OBS6001"},
		{UserReport, "USR9000"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.id)
		}
	}
	if Code(4242).Title() != UnknownCode.Title() {
		t.Error("unregistered code should fall back to the unknown title")
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(4)
	bag.Add(Warning().WithPrimaryLabel(span(10, 12), "").WithMessage("w"))
	bag.Add(Note().WithMessage("no location"))
	bag.Add(Error().WithPrimaryLabel(span(10, 12), "").WithMessage("e"))
	bag.Add(Error().WithPrimaryLabel(span(2, 3), "").WithMessage("first"))
	if bag.Add(Error()) {
		t.Fatal("bag accepted a diagnostic past its limit")
	}

	bag.Sort()
	want := []string{"first", "e", "w", "no location"}
	for i, d := range bag.Items() {
		if d.Message != want[i] {
			t.Errorf("item %d = %q, want %q", i, d.Message, want[i])
		}
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected errors and warnings")
	}

	dup := NewBag(0)
	for range 3 {
		dup.Add(Error().WithCode(IdxStale).WithPrimaryLabel(span(1, 2), "").WithMessage("stale"))
	}
	dup.Add(Error().WithCode(IdxStale).WithPrimaryLabel(span(1, 2), "").WithMessage("other"))
	dup.Dedup()
	if dup.Len() != 2 {
		t.Errorf("expected 2 unique diagnostics, got %d", dup.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a, b := NewBag(1), NewBag(2)
	a.Add(Error())
	b.Add(Warning())
	b.Add(Note())
	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Errorf("merge: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestReporters(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(NewBagReporter(bag))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ReportError(r, IOLoadFileError, "cannot read").WithNote("check permissions").Emit()
		}()
	}
	wg.Wait()

	b := ReportWarning(r, IdxStale, "stale").WithPrimaryLabel(span(0, 4), "here")
	b.Emit()
	b.Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if d := b.Diagnostic(); d.Severity != SevWarning || len(d.Labels) != 1 {
		t.Errorf("unexpected builder diagnostic %+v", d)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote("x").Emit()
}

func TestContext(t *testing.T) {
	var ctx Context
	if err := ctx.Err(); err != nil || len(ctx.Summary()) != 0 {
		t.Fatalf("fresh context should be clean: %v", err)
	}

	var wg sync.WaitGroup
	for _, sev := range []Severity{SevBug, SevError, SevError, SevWarning, SevNote, SevHelp} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.Count(sev)
		}()
	}
	wg.Wait()

	if ctx.Errors() != 3 || ctx.Warnings() != 1 || ctx.Notes() != 2 {
		t.Fatalf("tallies: errors=%d warnings=%d notes=%d", ctx.Errors(), ctx.Warnings(), ctx.Notes())
	}
	sum := ctx.Summary()
	if len(sum) != 2 || sum[0].Message != "1 warning emitted" || sum[1].Message != "3 errors emitted" {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum[0].Severity != SevWarning || sum[1].Severity != SevError {
		t.Errorf("unexpected summary severities %v %v", sum[0].Severity, sum[1].Severity)
	}
	if err := ctx.Err(); !errors.Is(err, ErrDiagnosticsEmitted) {
		t.Errorf("expected ErrDiagnosticsEmitted, got %v", err)
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "error") != "1 error" || plural(2, "warning") != "2 warnings" {
		t.Error("unexpected plural form")
	}
}
