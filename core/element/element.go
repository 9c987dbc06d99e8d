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

// Package element provides the identity primitive shared by every
// addressable object in the runtime. Nodes, edges, mail envelopes and
// work items all embed an Element and are compared by its id.
package element

import (
	"time"

	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/uuid"
)

// ID uniquely identifies an element within one runtime process.
type ID string

// Zero is the id of the zero Element.
const Zero ID = ""

// String implements fmt.Stringer.
func (i ID) String() string {
	return string(i)
}

var (
	idGen uuid.Generator = uuid.NewGenerator()
	clk   clock.Clock    = clock.New()
)

// SetIDGenerator replaces the package id generator and returns the
// previous one. Tests use it to mint deterministic ids.
func SetIDGenerator(g uuid.Generator) (old uuid.Generator) {
	old, idGen = idGen, g
	return old
}

// SetClock replaces the package clock and returns the previous one.
func SetClock(c clock.Clock) (old clock.Clock) {
	old, clk = clk, c
	return old
}

// NewID mints a fresh id.
func NewID() ID {
	return ID(idGen.NewString())
}

// Element carries identity and a creation timestamp. The zero value is
// not a valid element, use New.
type Element struct {
	id        ID
	createdAt time.Time
}

// New creates an Element with a fresh id stamped at the current time.
func New() Element {
	return Element{
		id:        NewID(),
		createdAt: clk.Now(),
	}
}

// NewWithID creates an Element carrying the given id. The caller is
// responsible for the id's uniqueness.
func NewWithID(id ID) Element {
	return Element{
		id:        id,
		createdAt: clk.Now(),
	}
}

// ID returns the element's id.
func (e Element) ID() ID {
	return e.id
}

// CreatedAt returns the creation timestamp.
func (e Element) CreatedAt() time.Time {
	return e.createdAt
}
