package hdl

import (
	"iter"
	"slices"
)

// Collection is a name-keyed set of values that remembers insertion order.
// Collections returned by this package are read-only views; they are
// populated by the owning container.
type Collection[T any] struct {
	names  []string
	byName map[string]T
}

func newCollection[T any]() *Collection[T] {
	return &Collection[T]{byName: make(map[string]T)}
}

// Get returns the value stored under name.
func (c *Collection[T]) Get(name string) (T, bool) {
	v, ok := c.byName[name]
	return v, ok
}

// Has reports whether name is present.
func (c *Collection[T]) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of entries.
func (c *Collection[T]) Len() int { return len(c.names) }

// Names returns the entry names in insertion order.
func (c *Collection[T]) Names() []string { return slices.Clone(c.names) }

// Values returns the entries in insertion order.
func (c *Collection[T]) Values() []T {
	out := make([]T, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.byName[name])
	}
	return out
}

// All iterates over name/value pairs in insertion order.
func (c *Collection[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, name := range c.names {
			if !yield(name, c.byName[name]) {
				return
			}
		}
	}
}

// put inserts or replaces name. Replacement keeps the original position.
func (c *Collection[T]) put(name string, v T) {
	if _, exists := c.byName[name]; !exists {
		c.names = append(c.names, name)
	}
	c.byName[name] = v
}
