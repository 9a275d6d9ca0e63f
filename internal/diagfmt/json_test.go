package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"premap/internal/codemap"
	"premap/internal/diag"
	"premap/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	cm := mustCodemap(t, readme)

	bag := diag.NewBag(10)
	bag.Add(diag.Error().
		WithCode(diag.UserReport).
		WithMessage("example").
		WithPrimaryLabel(spanOf(t, readme, "last"), "here").
		WithSecondaryLabel(spanOf(t, readme, "first"), "").
		WithNote("a note"))

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, IncludeNotes: true}
	if err := JSON(&buf, bag, cm, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "error" || d.Code != "USR9000" || d.Message != "example" {
		t.Errorf("unexpected header %+v", d)
	}
	if len(d.Labels) != 2 || len(d.Notes) != 1 {
		t.Fatalf("expected 2 labels and 1 note, got %+v", d)
	}

	primary := d.Labels[0]
	if primary.Style != "primary" || primary.Message != "here" {
		t.Errorf("unexpected primary label %+v", primary)
	}
	want := LocationJSON{
		File:      "included_file",
		StartByte: primary.Location.StartByte,
		EndByte:   primary.Location.StartByte + 4,
		StartLine: 6, StartCol: 5, EndLine: 6, EndCol: 9,
	}
	if primary.Location != want {
		t.Errorf("primary location = %+v, want %+v", primary.Location, want)
	}
	if sec := d.Labels[1].Location; sec.File != "top_file" || sec.StartLine != 1 || sec.StartCol != 3 {
		t.Errorf("unexpected secondary location %+v", sec)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	f := codemap.NewSingleFile("plain.c", []byte("x\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Warning().WithMessage("w").WithPrimaryLabel(source.Span{Start: 0, End: 1}, "").WithNote("hidden"))
	bag.Add(diag.Warning().WithMessage("cut"))

	out := BuildDiagnosticsOutput(bag, f, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Max not honoured: %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "" || d.Notes != nil {
		t.Errorf("unexpected code/notes %+v", d)
	}
	if loc := d.Labels[0].Location; loc.File != "plain.c" || loc.StartLine != 0 {
		t.Errorf("positions should be omitted: %+v", loc)
	}
}

func TestJSONUnresolvedLocation(t *testing.T) {
	f := codemap.NewSingleFile("empty.c", nil)
	bag := diag.NewBag(0)
	bag.Add(diag.Error().WithPrimaryLabel(source.Span{}, ""))
	out := BuildDiagnosticsOutput(bag, f, JSONOpts{IncludePositions: true})
	if loc := out.Diagnostics[0].Labels[0].Location; loc.Error != NoLocation || loc.File != "" {
		t.Errorf("expected unresolved location, got %+v", loc)
	}
}
