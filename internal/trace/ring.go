package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events for a crash dump.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int // слот для следующего события
	count  int // сколько слотов заполнено
	level  Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = stored
	t.next = (t.next + 1) % len(t.events)
	t.count = min(t.count+1, len(t.events))
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.count)
	start := (t.next - t.count + len(t.events)) % len(t.events)
	for i := range t.count {
		out = append(out, t.events[(start+i)%len(t.events)])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t, looking through a MultiTracer,
// or nil when t keeps no ring.
func RingOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		for _, inner := range tr.tracers {
			if ring := RingOf(inner); ring != nil {
				return ring
			}
		}
	}
	return nil
}
