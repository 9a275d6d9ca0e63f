package ui

import (
	"strings"
	"testing"

	"premap/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("indexing", []string{"a.i", "b.i"}, nil).(*progressModel)

	// queued files contribute nothing until their first event
	if got := m.fraction(); got != 0 {
		t.Fatalf("initial fraction = %v, want 0", got)
	}

	steps := []struct {
		ev       driver.Event
		file     int
		status   string
		fraction float64
	}{
		{driver.Event{File: "a.i", Stage: driver.StageLoad, Status: driver.StatusWorking}, 0, "loading", 0.05},
		{driver.Event{File: "a.i", Stage: driver.StageIndex, Status: driver.StatusWorking}, 0, "indexing", 0.25},
		{driver.Event{File: "a.i", Stage: driver.StageIndex, Status: driver.StatusDone}, 0, "done", 0.5},
		{driver.Event{File: "b.i", Stage: driver.StageLoad, Status: driver.StatusError}, 1, "error", 1},
	}
	for _, st := range steps {
		m.applyEvent(st.ev)
		if got := m.items[st.file].status; got != st.status {
			t.Errorf("%v: status = %q, want %q", st.ev, got, st.status)
		}
		if got := m.fraction(); got < st.fraction-1e-9 || got > st.fraction+1e-9 {
			t.Errorf("%v: fraction = %v, want %v", st.ev, got, st.fraction)
		}
	}

	m.applyEvent(driver.Event{File: "unknown.i", Stage: driver.StageLoad, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{Stage: driver.StageStore, Status: driver.StatusWorking})
	if m.stageLabel != "storing" {
		t.Errorf("run-level label = %q", m.stageLabel)
	}
}

func TestView(t *testing.T) {
	m := NewProgressModel("indexing", []string{"a.i"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a.i", Stage: driver.StageIndex, Status: driver.StatusDone})
	m.done = true
	view := m.View()
	for _, want := range []string{"done: indexing 1/1", "a.i", "done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	empty := NewProgressModel("x", nil, nil)
	if empty.View() != "" {
		t.Error("empty model should render nothing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much/too/long/path.i", 10, "much..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
