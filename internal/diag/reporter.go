package diag

import (
	"sync"

	"premap/internal/source"
)

// Reporter: минимальный контракт получения диагностик.
// Реализации: BagReporter (кладёт в Bag), DedupReporter, diagfmt.Emitter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev).WithCode(code).WithMessage(msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, msg)
}

// ReportNote is a shortcut for SevNote diagnostics.
func ReportNote(r Reporter, code Code, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevNote, code, msg)
}

func (b *ReportBuilder) WithPrimaryLabel(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithPrimaryLabel(sp, msg)
	return b
}

func (b *ReportBuilder) WithSecondaryLabel(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithSecondaryLabel(sp, msg)
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(msg)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag. Безопасен для горутин.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func NewBagReporter(bag *Bag) *BagReporter {
	return &BagReporter{Bag: bag}
}

func (r *BagReporter) Report(d Diagnostic) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	r.Bag.Add(d)
	r.mu.Unlock()
}
