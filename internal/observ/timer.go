package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"premap/internal/diag"
)

// Phase records the duration and metadata of one stage of a command.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of the stages of a command. Safe for
// concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, line := range t.lines() {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Diagnostic renders the timings as a note, one phase per note line.
func (t *Timer) Diagnostic() diag.Diagnostic {
	d := diag.Note().WithCode(diag.ObsTimings).WithMessage("timings")
	for _, line := range t.lines() {
		d = d.WithNote(line)
	}
	return d
}

func (t *Timer) lines() []string {
	report := t.Report()
	out := make([]string, 0, len(report.Phases)+1)
	for _, p := range report.Phases {
		line := fmt.Sprintf("%-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		out = append(out, line)
	}
	return append(out, fmt.Sprintf("%-20s %7.2f ms", "total", report.TotalMS))
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
