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

// Package progression provides an ordered sequence of element ids.
//
// A Progression is a plain sequence, not a set: the same id may appear
// more than once unless callers stick to Include/Exclude. It is not
// internally synchronized; owners that share one across goroutines must
// guard it themselves, as Pile does for its order index.
package progression

import (
	"fmt"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Progression keeps element ids in insertion order.
type Progression struct {
	name  string
	order []element.ID
}

// New creates an empty Progression.
func New(name string) *Progression {
	return &Progression{name: name}
}

// NewFrom creates a Progression pre-filled with ids.
func NewFrom(name string, ids ...element.ID) *Progression {
	p := New(name)
	p.Append(ids...)
	return p
}

// Name returns the progression's name.
func (p *Progression) Name() string {
	return p.name
}

// Len returns the number of ids, counting duplicates.
func (p *Progression) Len() int {
	return len(p.order)
}

// IsEmpty reports whether the progression holds no ids.
func (p *Progression) IsEmpty() bool {
	return len(p.order) == 0
}

// Append adds ids at the end. Duplicates are allowed.
func (p *Progression) Append(ids ...element.ID) {
	p.order = append(p.order, ids...)
}

// Extend appends every id of other, in order.
func (p *Progression) Extend(other *Progression) {
	if other == nil {
		return
	}
	p.order = append(p.order, other.order...)
}

// Include appends each id that is not present yet. It reports whether
// at least one id was newly added.
func (p *Progression) Include(ids ...element.ID) bool {
	added := false
	for _, id := range ids {
		if !p.Contains(id) {
			p.order = append(p.order, id)
			added = true
		}
	}
	return added
}

// Exclude removes every occurrence of each id. It reports whether all
// given ids had at least one occurrence removed.
func (p *Progression) Exclude(ids ...element.ID) bool {
	all := true
	for _, id := range ids {
		if !p.removeAll(id) {
			all = false
		}
	}
	return all
}

// Remove removes every occurrence of each id, or returns a not-found
// error leaving the progression unchanged if any id is absent.
func (p *Progression) Remove(ids ...element.ID) error {
	for _, id := range ids {
		if !p.Contains(id) {
			return errors.ErrItemNotFound.GenWithStackByArgs(id)
		}
	}
	for _, id := range ids {
		p.removeAll(id)
	}
	return nil
}

func (p *Progression) removeAll(id element.ID) bool {
	removed := false
	kept := p.order[:0]
	for _, cur := range p.order {
		if cur == id {
			removed = true
			continue
		}
		kept = append(kept, cur)
	}
	p.order = kept
	return removed
}

// Pop removes and returns the last id.
func (p *Progression) Pop() (element.ID, error) {
	if len(p.order) == 0 {
		return element.Zero, errors.ErrProgressionEmpty.GenWithStackByArgs(p.name)
	}
	last := p.order[len(p.order)-1]
	p.order = p.order[:len(p.order)-1]
	return last, nil
}

// PopLeft removes and returns the first id.
func (p *Progression) PopLeft() (element.ID, error) {
	if len(p.order) == 0 {
		return element.Zero, errors.ErrProgressionEmpty.GenWithStackByArgs(p.name)
	}
	first := p.order[0]
	p.order = p.order[1:]
	return first, nil
}

// At returns the id at index i.
func (p *Progression) At(i int) (element.ID, error) {
	if i < 0 || i >= len(p.order) {
		return element.Zero, errors.ErrIndexOutOfRange.GenWithStackByArgs(i, len(p.order))
	}
	return p.order[i], nil
}

// SetAt replaces the id at index i.
func (p *Progression) SetAt(i int, id element.ID) error {
	if i < 0 || i >= len(p.order) {
		return errors.ErrIndexOutOfRange.GenWithStackByArgs(i, len(p.order))
	}
	p.order[i] = id
	return nil
}

// RemoveAt removes the id at index i.
func (p *Progression) RemoveAt(i int) error {
	if i < 0 || i >= len(p.order) {
		return errors.ErrIndexOutOfRange.GenWithStackByArgs(i, len(p.order))
	}
	p.order = append(p.order[:i], p.order[i+1:]...)
	return nil
}

// Insert places ids before index i. i may equal Len, meaning append.
func (p *Progression) Insert(i int, ids ...element.ID) error {
	if i < 0 || i > len(p.order) {
		return errors.ErrIndexOutOfRange.GenWithStackByArgs(i, len(p.order))
	}
	if len(ids) == 0 {
		return nil
	}
	tail := make([]element.ID, len(p.order[i:]))
	copy(tail, p.order[i:])
	p.order = append(append(p.order[:i], ids...), tail...)
	return nil
}

// Slice returns a copy of the ids in [from, to).
func (p *Progression) Slice(from, to int) ([]element.ID, error) {
	if from < 0 || to > len(p.order) || from > to {
		return nil, errors.ErrIndexOutOfRange.GenWithStackByArgs(from, len(p.order))
	}
	out := make([]element.ID, to-from)
	copy(out, p.order[from:to])
	return out, nil
}

// Contains reports whether ALL given ids are present.
func (p *Progression) Contains(ids ...element.ID) bool {
	for _, id := range ids {
		found := false
		for _, cur := range p.order {
			if cur == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Values returns a copy of the current order.
func (p *Progression) Values() []element.ID {
	out := make([]element.ID, len(p.order))
	copy(out, p.order)
	return out
}

// Copy returns a deep copy sharing no state with p.
func (p *Progression) Copy() *Progression {
	return &Progression{name: p.name, order: p.Values()}
}

// Clear removes all ids.
func (p *Progression) Clear() {
	p.order = p.order[:0]
}

// String implements fmt.Stringer.
func (p *Progression) String() string {
	return fmt.Sprintf("Progression(name=%q, order=%v)", p.name, p.order)
}
