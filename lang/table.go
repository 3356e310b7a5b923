package lang

import (
	"iter"
	"slices"
)

// Table resolves bound names to paths. Explicit bindings take priority, in
// declaration order, over prelude bindings in registry order; the first
// binding for a name wins.
type Table struct {
	bindings []Binding
	index    map[string]int
	explicit int

	noPrelude bool
	noStd     bool
}

// NewTable merges explicit bindings with the registry. The sentinels
// no_prelude and no_std are removed from explicit and suppress the whole
// registry or its std bundles, respectively. A nil registry contributes
// nothing.
func NewTable(explicit []Binding, reg *Registry) *Table {
	t := &Table{index: make(map[string]int)}

	for _, b := range explicit {
		switch b.Name.Text {
		case NoPrelude:
			t.noPrelude = true
		case NoStd:
			t.noStd = true
		default:
			t.add(b)
		}
	}

	t.explicit = len(t.bindings)

	if !t.noPrelude {
		for b := range reg.Bindings(t.noStd) {
			t.add(b)
		}
	}

	return t
}

func (t *Table) add(b Binding) {
	if _, ok := t.index[b.Name.Text]; !ok {
		t.index[b.Name.Text] = len(t.bindings)
	}

	t.bindings = append(t.bindings, b)
}

// Lookup returns the highest-priority binding for name.
func (t *Table) Lookup(name string) (Binding, bool) {
	i, ok := t.index[name]
	if !ok {
		return Binding{}, false
	}

	return t.bindings[i], true
}

// All returns every binding in priority order, including shadowed ones.
// The boolean reports whether the binding was declared explicitly.
func (t *Table) All() iter.Seq2[Binding, bool] {
	return func(yield func(Binding, bool) bool) {
		for i, b := range t.bindings {
			if !yield(b, i < t.explicit) {
				return
			}
		}
	}
}

// Names returns the distinct bound names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Len returns the number of distinct bound names.
func (t *Table) Len() int { return len(t.index) }

// NoPrelude reports whether the no_prelude sentinel was declared.
func (t *Table) NoPrelude() bool { return t.noPrelude }

// NoStd reports whether the no_std sentinel was declared.
func (t *Table) NoStd() bool { return t.noStd }
