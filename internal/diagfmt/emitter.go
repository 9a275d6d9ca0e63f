package diagfmt

import (
	"io"
	"sync"

	"premap/internal/codemap"
	"premap/internal/diag"
)

// Emitter renders diagnostics as they are reported and keeps their tally in
// a diag.Context. Safe for concurrent use; output of one diagnostic is never
// interleaved with another.
type Emitter struct {
	mu    sync.Mutex
	w     io.Writer
	p     *printer
	ctx   *diag.Context
	shown int
	err   error
}

var _ diag.Reporter = (*Emitter)(nil)

// NewEmitter binds w and loc. A nil ctx gets a fresh Context.
func NewEmitter(w io.Writer, loc codemap.Locator, ctx *diag.Context, opts PrettyOpts) *Emitter {
	if ctx == nil {
		ctx = &diag.Context{}
	}
	return &Emitter{w: w, p: newPrinter(loc, opts), ctx: ctx}
}

// Context returns the tally shared by this emitter.
func (e *Emitter) Context() *diag.Context {
	return e.ctx
}

// Emit counts d and renders it. Past opts.Max diagnostics are counted but
// not printed.
func (e *Emitter) Emit(d diag.Diagnostic) error {
	e.ctx.Count(d.Severity)
	out := e.p.render(&d)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p.opts.Max > 0 && e.shown >= e.p.opts.Max {
		return nil
	}
	e.shown++
	if _, err := e.w.Write(out); err != nil {
		if e.err == nil {
			e.err = err
		}
		return err
	}
	return nil
}

// Report implements diag.Reporter; write errors are kept for Err.
func (e *Emitter) Report(d diag.Diagnostic) {
	_ = e.Emit(d)
}

// Err returns the first write error, if any.
func (e *Emitter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// EmitStatus prints the warning and error totals (uncounted) and returns a
// non-nil error when any error or bug was emitted.
func (e *Emitter) EmitStatus() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.ctx.Summary() {
		if _, err := e.w.Write(e.p.render(&d)); err != nil {
			return err
		}
	}
	return e.ctx.Err()
}
