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
	"context"
)

// ConditionSource tells the traversal engine where an edge condition
// must be evaluated.
type ConditionSource int

const (
	// SourceStructure conditions depend only on the graph and are
	// evaluated in place by the traversal engine.
	SourceStructure ConditionSource = iota
	// SourceExecutable conditions depend on the driving actor's state
	// and are evaluated remotely via a condition ask round trip.
	SourceExecutable
)

// String implements fmt.Stringer.
func (s ConditionSource) String() string {
	switch s {
	case SourceStructure:
		return "structure"
	case SourceExecutable:
		return "executable"
	default:
		return "unknown"
	}
}

// Env is the evaluation environment handed to a condition. Structure
// conditions see the owning Graph and the Edge being gated; executable
// conditions additionally receive the evaluating actor's Scope.
type Env struct {
	Graph *Graph
	Edge  *Edge
	Scope map[string]any
}

// Condition gates an edge. Apply reports whether the edge may be
// followed.
type Condition interface {
	Source() ConditionSource
	Apply(ctx context.Context, env Env) (bool, error)
}

// FuncCondition adapts a plain function to the Condition interface.
type FuncCondition struct {
	source ConditionSource
	fn     func(ctx context.Context, env Env) (bool, error)
}

// NewFuncCondition creates a FuncCondition with the given source.
func NewFuncCondition(source ConditionSource, fn func(ctx context.Context, env Env) (bool, error)) *FuncCondition {
	return &FuncCondition{source: source, fn: fn}
}

// Source implements Condition.Source.
func (c *FuncCondition) Source() ConditionSource {
	return c.source
}

// Apply implements Condition.Apply.
func (c *FuncCondition) Apply(ctx context.Context, env Env) (bool, error) {
	return c.fn(ctx, env)
}
