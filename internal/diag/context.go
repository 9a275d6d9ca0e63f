package diag

import (
	"fmt"
	"sync/atomic"
)

// Context tallies emitted diagnostics. It is shared by every producer of one
// run and safe for concurrent use; the zero value is ready.
type Context struct {
	errors   atomic.Uint32 // errors and bugs
	warnings atomic.Uint32
	notes    atomic.Uint32
}

// Count records one diagnostic of severity sev.
func (c *Context) Count(sev Severity) {
	switch {
	case sev.IsError():
		c.errors.Add(1)
	case sev == SevWarning:
		c.warnings.Add(1)
	default:
		c.notes.Add(1)
	}
}

func (c *Context) Errors() uint32   { return c.errors.Load() }
func (c *Context) Warnings() uint32 { return c.warnings.Load() }
func (c *Context) Notes() uint32    { return c.notes.Load() }

func (c *Context) HasErrors() bool {
	return c.errors.Load() > 0
}

// Summary builds the closing diagnostics: one warning with the warning count
// and one error with the error count, each only when non-zero.
func (c *Context) Summary() []Diagnostic {
	var out []Diagnostic
	if n := c.Warnings(); n > 0 {
		out = append(out, Warning().WithMessage(plural(n, "warning")+" emitted"))
	}
	if n := c.Errors(); n > 0 {
		out = append(out, Error().WithMessage(plural(n, "error")+" emitted"))
	}
	return out
}

// Err returns ErrDiagnosticsEmitted wrapped with the count when any error was
// emitted, nil otherwise.
func (c *Context) Err() error {
	if n := c.Errors(); n > 0 {
		return fmt.Errorf("%w: %s", ErrDiagnosticsEmitted, plural(n, "error"))
	}
	return nil
}

func plural(n uint32, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
