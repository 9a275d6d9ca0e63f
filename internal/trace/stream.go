package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes every event as soon as it is emitted. Write errors are
// dropped: tracing never fails a command.
type StreamTracer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	owned  io.Closer // файл, открытый трейсером; stderr не закрываем
	level  Level
	format Format
	events int
}

// NewStreamTracer writes to w. The writer is not closed by Close; use
// newOwnedStream for files the tracer opened itself.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: bufio.NewWriter(w), level: level, format: format}
	if format == FormatChrome {
		_, _ = t.w.WriteString("{\"traceEvents\":[\n") //nolint:errcheck
	}
	return t
}

func newOwnedStream(f io.WriteCloser, level Level, format Format) *StreamTracer {
	t := NewStreamTracer(f, level, format)
	t.owned = f
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.format == FormatChrome && t.events > 0 {
		_, _ = t.w.WriteString(",\n") //nolint:errcheck
	}
	t.events++
	_, _ = t.w.Write(data) //nolint:errcheck
	// построчный вывод: хвост трассы не должен теряться при зависании
	if t.format != FormatChrome {
		_ = t.w.Flush() //nolint:errcheck
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}

// Close terminates a Chrome trace, flushes, and closes an owned file.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.format == FormatChrome {
		_, _ = t.w.WriteString("\n]}\n") //nolint:errcheck
	}
	err := t.w.Flush()
	t.mu.Unlock()

	if t.owned != nil {
		if cerr := t.owned.Close(); err == nil {
			err = cerr
		}
		t.owned = nil
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
