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

package executor

import (
	"context"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/graph"
)

// Performer executes the payload of one traversal node. Composite
// action nodes synthesized by the graph executor pass through the same
// call, with the node content holding a graph.Action.
type Performer interface {
	Perform(ctx context.Context, node *graph.Node) (any, error)
}

// PerformerFunc adapts a plain function to the Performer interface.
type PerformerFunc func(ctx context.Context, node *graph.Node) (any, error)

// Perform implements the Performer interface.
func (f PerformerFunc) Perform(ctx context.Context, node *graph.Node) (any, error) {
	return f(ctx, node)
}

// Record is one branch journal entry: a performed node and the result
// the performer returned for it.
type Record struct {
	element.Element

	NodeID element.ID
	Result any
}

// NewRecord builds a journal entry for a performed node.
func NewRecord(nodeID element.ID, result any) *Record {
	return &Record{
		Element: element.New(),
		NodeID:  nodeID,
		Result:  result,
	}
}
