package diag

import (
	"math"
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = math.MaxInt
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity.IsError() {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if newTotal := len(b.items) + len(other.items); newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует диагностики по: start, end основной метки, severity (desc), code (asc).
// Диагностики без основной метки идут в конце.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := &b.items[i], &b.items[j]
		si, oki := di.Primary()
		sj, okj := dj.Primary()
		if oki != okj {
			return oki
		}
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		if si.End != sj.End {
			return si.End < sj.End
		}
		// затем по severity (по убыванию: Bug > Error > Warning > Note > Help)
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Severity+Primary+Message)
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	newitems := make([]Diagnostic, 0, len(b.items))
	for i := range b.items {
		key := keyOf(&b.items[i])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		newitems = append(newitems, b.items[i])
	}
	b.items = newitems
}
