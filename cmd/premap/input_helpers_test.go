package main

import (
	"strings"
	"testing"

	"premap/internal/diag"
	"premap/internal/source"
)

func TestParseLabelSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    labelSpec
		wantErr string
	}{
		{in: "3..7", want: labelSpec{span: source.Span{Start: 3, End: 7}}},
		{in: "0..0=here", want: labelSpec{span: source.Span{Start: 0, End: 0}, message: "here"}},
		{in: "10..12=a = b", want: labelSpec{span: source.Span{Start: 10, End: 12}, message: "a = b"}},
		{in: "7..3", wantErr: "end precedes start"},
		{in: "7-3", wantErr: "expected A..B"},
		{in: "x..3", wantErr: "invalid offset"},
		{in: "1..99999999999", wantErr: "invalid offset"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLabelSpec(tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOffsets(t *testing.T) {
	got, err := parseOffsets([]string{"0", " 12", "4294967295"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[1] != 12 || got[2] != 4294967295 {
		t.Errorf("unexpected offsets %v", got)
	}
	if _, err := parseOffsets([]string{"-1"}); err == nil {
		t.Error("negative offsets must be rejected")
	}
}

func TestBuildAnnotation(t *testing.T) {
	d, err := buildAnnotation(diag.SevWarning, diag.UserReport, "look", "1..4=primary", []string{"5..6", "7..9=other"}, []string{"n1"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Severity != diag.SevWarning || d.Code != diag.UserReport || d.Message != "look" {
		t.Errorf("unexpected header %+v", d)
	}
	if len(d.Labels) != 3 || d.Labels[0].Style != diag.LabelPrimary || d.Labels[2].Message.Value() != "other" {
		t.Errorf("unexpected labels %+v", d.Labels)
	}
	if len(d.Notes) != 1 {
		t.Errorf("unexpected notes %v", d.Notes)
	}

	if _, err := buildAnnotation(diag.SevError, diag.UserReport, "", "bad", nil, nil); err == nil || !strings.Contains(err.Error(), "--primary") {
		t.Errorf("expected --primary error, got %v", err)
	}
}

func TestProgressUIEnabled(t *testing.T) {
	for in, want := range map[string]bool{" on ": true, "ON": true, "off": false} {
		got, err := progressUIEnabled(in)
		if err != nil || got != want {
			t.Errorf("progressUIEnabled(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := progressUIEnabled("auto"); err != nil {
		t.Error(err)
	}
	if _, err := progressUIEnabled("maybe"); err == nil {
		t.Error("expected error")
	}
}
