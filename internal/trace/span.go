package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seqCounter, spanCounter atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}

// goid reads the current goroutine number from the first line of its stack
// ("goroutine 17 [running]:"). Zero when the line cannot be parsed.
func goid() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line, ok := bytes.CutPrefix(line, []byte("goroutine "))
	if !ok {
		return 0
	}
	if sp := bytes.IndexByte(line, ' '); sp >= 0 {
		line = line[:sp]
	}
	id, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is an open begin/end pair. A span the level filters out is still
// usable: it records nothing, and its children and points attach to the
// nearest recorded ancestor.
type Span struct {
	tracer  Tracer
	id      uint64 // 0 when filtered
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

func recording(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Begin opens a span named name under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil {
		t = Nop
	}
	s := &Span{tracer: t, parent: parent, scope: scope, name: name}
	if !recording(t, scope) {
		return s
	}
	s.id = spanCounter.Add(1)
	s.gid = goid()
	s.started = time.Now()
	s.emit(KindSpanBegin, s.started, "", nil)
	return s
}

// Child opens a span under s.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return Begin(Nop, scope, name, 0)
	}
	return Begin(s.tracer, scope, name, s.anchor())
}

// Records reports whether events of scope under s reach the tracer.
func (s *Span) Records(scope Scope) bool {
	return s != nil && recording(s.tracer, scope)
}

// Point records an instant event under s, e.g. a cache hit or one segment.
func (s *Span) Point(scope Scope, name, detail string) {
	if !s.Records(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.anchor(),
		GID:      goid(),
		Name:     name,
		Detail:   detail,
	})
}

// Set attaches key=value to the end event of s.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes s with detail and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.attrs)
	return now.Sub(s.started)
}

// ID returns the span's ID, 0 when it was filtered.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// anchor is the ID new children hang from.
func (s *Span) anchor() uint64 {
	if s.id != 0 {
		return s.id
	}
	return s.parent
}

func (s *Span) emit(kind Kind, at time.Time, detail string, attrs map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    attrs,
	})
}
