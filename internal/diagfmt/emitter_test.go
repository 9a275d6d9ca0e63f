package diagfmt

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"premap/internal/diag"
)

func TestEmitterStatus(t *testing.T) {
	cm := mustCodemap(t, readme)
	var buf bytes.Buffer
	e := NewEmitter(&buf, cm, nil, PrettyOpts{})

	e.Report(diag.Warning().WithMessage("w").WithPrimaryLabel(spanOf(t, readme, "another line"), ""))
	e.Report(diag.Error().WithMessage("e1"))
	e.Report(diag.Bug().WithMessage("e2"))
	e.Report(diag.Note().WithMessage("n"))

	buf.Reset()
	err := e.EmitStatus()
	if !errors.Is(err, diag.ErrDiagnosticsEmitted) {
		t.Fatalf("expected ErrDiagnosticsEmitted, got %v", err)
	}
	want := "warning: 1 warning emitted\n\nerror: 2 errors emitted\n\n"
	if buf.String() != want {
		t.Errorf("status output = %q, want %q", buf.String(), want)
	}
	// итоговые сообщения не считаются
	if e.Context().Errors() != 2 || e.Context().Warnings() != 1 {
		t.Errorf("status messages changed the tally: %d/%d", e.Context().Errors(), e.Context().Warnings())
	}
}

func TestEmitterCleanStatus(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf, mustCodemap(t, ""), nil, PrettyOpts{})
	e.Report(diag.Help().WithMessage("fyi"))
	buf.Reset()
	if err := e.EmitStatus(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no status output, got %q", buf.String())
	}
}

func TestEmitterConcurrentAndLimited(t *testing.T) {
	cm := mustCodemap(t, readme)
	var buf bytes.Buffer
	ctx := &diag.Context{}
	e := NewEmitter(&buf, cm, ctx, PrettyOpts{Max: 5})

	span := spanOf(t, readme, "continue")
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Emit(diag.Error().WithMessage("boom").WithPrimaryLabel(span, "x"))
		}()
	}
	wg.Wait()

	if ctx.Errors() != 20 {
		t.Errorf("expected 20 counted errors, got %d", ctx.Errors())
	}
	if n := strings.Count(buf.String(), "error: boom\n"); n != 5 {
		t.Errorf("expected 5 rendered diagnostics, got %d", n)
	}
	// вывод не перемешан: каждый заголовок сопровождается своим сниппетом
	if n := strings.Count(buf.String(), "  ┌─ included_file:1:1\n"); n != 5 {
		t.Errorf("expected 5 intact snippets, got %d:\n%s", n, buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEmitterWriteError(t *testing.T) {
	e := NewEmitter(failingWriter{}, mustCodemap(t, "x"), nil, PrettyOpts{})
	e.Report(diag.Error().WithMessage("lost"))
	if e.Err() == nil {
		t.Fatal("expected write error to be kept")
	}
	if e.Context().Errors() != 1 {
		t.Error("failed writes must still be counted")
	}
}
