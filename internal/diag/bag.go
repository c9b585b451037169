package diag

import (
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   max,
	}
}

// Add appends d unless the limit is reached.
// Returns false when the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddError converts err with FromError and adds it.
func (b *Bag) AddError(err error, subject string) bool {
	if err == nil {
		return true
	}
	return b.Add(FromError(err, subject))
}

// AddJoined adds every error of an errors.Join tree as its own diagnostic.
func (b *Bag) AddJoined(err error, subject string) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			b.AddJoined(e, subject)
		}
		return
	}
	b.AddError(err, subject)
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by subject, severity (desc) and code for stable
// output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Subject != dj.Subject {
			return di.Subject < dj.Subject
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeated diagnostics with the same code, subject and message.
func (b *Bag) Dedup() {
	type key struct {
		code    Code
		subject string
		msg     string
	}
	seen := make(map[key]bool)
	items := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		k := key{d.Code, d.Subject, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		items = append(items, d)
	}
	b.items = items
}
