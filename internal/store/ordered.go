// Package store holds the insertion-ordered keyed collection every entity
// store in the application is built on.
package store

import (
	"errors"
	"fmt"
)

var ErrDuplicateKey = errors.New("duplicate key")

// Ordered is a collection keyed by string id that remembers the order
// items were placed in. It is not safe for concurrent use; callers guard
// it with their own lock.
type Ordered[T any] struct {
	key   func(T) string
	order []string
	items map[string]T
}

// New returns an empty collection that identifies items with key.
func New[T any](key func(T) string) *Ordered[T] {
	return &Ordered[T]{
		key:   key,
		items: make(map[string]T),
	}
}

func (o *Ordered[T]) Len() int {
	return len(o.order)
}

func (o *Ordered[T]) Has(id string) bool {
	_, ok := o.items[id]
	return ok
}

func (o *Ordered[T]) Get(id string) (T, bool) {
	v, ok := o.items[id]
	return v, ok
}

// Append places v at the end.
func (o *Ordered[T]) Append(v T) error {
	id := o.key(v)
	if o.Has(id) {
		return fmt.Errorf("append %q: %w", id, ErrDuplicateKey)
	}
	o.items[id] = v
	o.order = append(o.order, id)
	return nil
}

// Prepend places v at the front.
func (o *Ordered[T]) Prepend(v T) error {
	id := o.key(v)
	if o.Has(id) {
		return fmt.Errorf("prepend %q: %w", id, ErrDuplicateKey)
	}
	o.items[id] = v
	o.order = append([]string{id}, o.order...)
	return nil
}

// Update applies fn to the item with the given id and stores the result.
// It reports false when no such item exists. fn must not change the id.
func (o *Ordered[T]) Update(id string, fn func(*T)) bool {
	v, ok := o.items[id]
	if !ok {
		return false
	}
	fn(&v)
	o.items[id] = v
	return true
}

// Values returns every item in order. The slice is freshly allocated.
func (o *Ordered[T]) Values() []T {
	out := make([]T, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.items[id])
	}
	return out
}

// Filter returns, in order, the items for which keep is true.
func (o *Ordered[T]) Filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range o.order {
		if v := o.items[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Find returns the first item, in order, for which match is true.
func (o *Ordered[T]) Find(match func(T) bool) (T, bool) {
	for _, id := range o.order {
		if v := o.items[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Each calls fn on every item in order.
func (o *Ordered[T]) Each(fn func(T)) {
	for _, id := range o.order {
		fn(o.items[id])
	}
}

// Replace discards the current contents and loads values in the given order.
// On a duplicate id the collection is left untouched.
func (o *Ordered[T]) Replace(values []T) error {
	items := make(map[string]T, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		id := o.key(v)
		if _, dup := items[id]; dup {
			return fmt.Errorf("replace %q: %w", id, ErrDuplicateKey)
		}
		items[id] = v
		order = append(order, id)
	}
	o.items = items
	o.order = order
	return nil
}
