package diag

import "sync"

type dedupKey struct {
	code  Code
	sev   Severity
	start uint32
	end   uint32
	msg   string
}

func keyOf(d *Diagnostic) dedupKey {
	span, _ := d.Primary()
	return dedupKey{
		code:  d.Code,
		sev:   d.Severity,
		start: span.Start,
		end:   span.End,
		msg:   d.Message,
	}
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, primary span and message.
type DedupReporter struct {
	next Reporter
	mu   sync.Mutex
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(&d)
	r.mu.Lock()
	_, dup := r.seen[key]
	r.seen[key] = struct{}{}
	r.mu.Unlock()
	if dup {
		return
	}
	if r.next != nil {
		r.next.Report(d)
	}
}
