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

package graph

import (
	"github.com/lion-agi/lionagi-sub006/core/element"
)

// Edge is a directed connection from Head to Tail. Fields are set on
// construction and read-only afterwards.
type Edge struct {
	element.Element

	// Head and Tail are node ids, Head -> Tail.
	Head element.ID
	Tail element.ID

	// Condition, when set, gates traversal of the edge.
	Condition Condition

	// Bundle marks the edge as a resource attachment: traversal does not
	// follow it, instead the Tail's content is merged into a composite
	// action node.
	Bundle bool

	// Label is a free-form annotation.
	Label string
}

// EdgeOption configures an edge on creation.
type EdgeOption func(*Edge)

// WithCondition gates the edge with c.
func WithCondition(c Condition) EdgeOption {
	return func(e *Edge) {
		e.Condition = c
	}
}

// WithBundle marks the edge as a bundle edge.
func WithBundle() EdgeOption {
	return func(e *Edge) {
		e.Bundle = true
	}
}

// WithLabel annotates the edge.
func WithLabel(label string) EdgeOption {
	return func(e *Edge) {
		e.Label = label
	}
}
