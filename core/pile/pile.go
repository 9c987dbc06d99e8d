// Copyright 2025 lion-agi, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pile provides a concurrency-safe, insertion-ordered, keyed
// collection. It is the one collection in the runtime that callers may
// share between goroutines without extra locking.
package pile

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/progression"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Item is anything addressable by an element id.
type Item interface {
	ID() element.ID
}

// Pile is a mutex-guarded map plus an insertion-order index. Lookups go
// through the map, positional access resolves through the order, and
// every mutation updates both under one critical section.
type Pile[T Item] struct {
	mu      sync.RWMutex
	items   map[element.ID]T
	order   *progression.Progression
	allowed map[reflect.Type]struct{}
}

// Option configures a Pile on construction.
type Option[T Item] func(*Pile[T])

// WithAllowedTypes restricts the pile to the dynamic types of the given
// prototypes. Any later insertion of another type is rejected.
func WithAllowedTypes[T Item](protos ...T) Option[T] {
	return func(p *Pile[T]) {
		if p.allowed == nil {
			p.allowed = make(map[reflect.Type]struct{}, len(protos))
		}
		for _, proto := range protos {
			p.allowed[reflect.TypeOf(proto)] = struct{}{}
		}
	}
}

// New creates an empty Pile.
func New[T Item](opts ...Option[T]) *Pile[T] {
	p := &Pile[T]{
		items: make(map[element.ID]T),
		order: progression.New(""),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pile[T]) checkType(item T) error {
	if p.allowed == nil {
		return nil
	}
	tp := reflect.TypeOf(item)
	if _, ok := p.allowed[tp]; !ok {
		return errors.ErrInvalidItemType.GenWithStackByArgs(tp)
	}
	return nil
}

// Get returns the item with the given id.
func (p *Pile[T]) Get(id element.ID) (T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	item, ok := p.items[id]
	if !ok {
		var zero T
		return zero, errors.ErrItemNotFound.GenWithStackByArgs(id)
	}
	return item, nil
}

// GetAt returns the item at position i of the insertion order.
func (p *Pile[T]) GetAt(i int) (T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, err := p.order.At(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.items[id], nil
}

// Slice returns the items at positions [from, to) of the insertion
// order.
func (p *Pile[T]) Slice(from, to int) ([]T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids, err := p.order.Slice(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.items[id])
	}
	return out, nil
}

// Put inserts the item, replacing any previous item with the same id.
func (p *Pile[T]) Put(item T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.putLocked(item)
}

func (p *Pile[T]) putLocked(item T) error {
	if err := p.checkType(item); err != nil {
		return err
	}
	id := item.ID()
	if _, ok := p.items[id]; !ok {
		p.order.Append(id)
	}
	p.items[id] = item
	return nil
}

// Include inserts the item unless its id is already present. Including
// a present id is a no-op, not a replacement.
func (p *Pile[T]) Include(item T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkType(item); err != nil {
		return err
	}
	id := item.ID()
	if _, ok := p.items[id]; ok {
		return nil
	}
	p.order.Append(id)
	p.items[id] = item
	return nil
}

// Exclude removes the item with the given id if present. It reports
// whether something was removed and never fails.
func (p *Pile[T]) Exclude(id element.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.items[id]; !ok {
		return false
	}
	delete(p.items, id)
	p.order.Exclude(id)
	return true
}

// Pop removes and returns the item with the given id.
func (p *Pile[T]) Pop(id element.ID) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		var zero T
		return zero, errors.ErrItemNotFound.GenWithStackByArgs(id)
	}
	delete(p.items, id)
	p.order.Exclude(id)
	return item, nil
}

// PopOr removes and returns the item with the given id, or returns
// fallback when the id is absent.
func (p *Pile[T]) PopOr(id element.ID, fallback T) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok {
		return fallback
	}
	delete(p.items, id)
	p.order.Exclude(id)
	return item
}

// Update upserts all items. Nothing is inserted if any item violates
// the allowed type set.
func (p *Pile[T]) Update(items []T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, item := range items {
		if err := p.checkType(item); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := p.putLocked(item); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every item.
func (p *Pile[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = make(map[element.ID]T)
	p.order.Clear()
}

// Len returns the number of items.
func (p *Pile[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// IsEmpty reports whether the pile holds no items.
func (p *Pile[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Contains reports whether ALL given ids are present.
func (p *Pile[T]) Contains(ids ...element.ID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, id := range ids {
		if _, ok := p.items[id]; !ok {
			return false
		}
	}
	return true
}

// Keys returns a snapshot of the ids in insertion order.
func (p *Pile[T]) Keys() []element.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.order.Values()
}

// Values returns a snapshot of the items in insertion order.
func (p *Pile[T]) Values() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]T, 0, len(p.items))
	for _, id := range p.order.Values() {
		out = append(out, p.items[id])
	}
	return out
}

// Range calls fn for each item in insertion order until fn returns
// false. The order is snapshotted at the start, so concurrent mutation
// cannot corrupt the traversal; items removed mid-iteration are
// skipped, items added mid-iteration are not visited.
func (p *Pile[T]) Range(fn func(item T) bool) {
	for _, id := range p.Keys() {
		p.mu.RLock()
		item, ok := p.items[id]
		p.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn(item) {
			return
		}
	}
}

// String implements fmt.Stringer.
func (p *Pile[T]) String() string {
	return fmt.Sprintf("Pile(len=%d)", p.Len())
}
