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
	"github.com/lion-agi/lionagi-sub006/core/progression"
)

// Node is an addressable vertex carrying an opaque payload. Its relation
// index (incoming and outgoing edge ids) is maintained by the owning
// Graph, callers must not mutate it directly.
type Node struct {
	element.Element

	// Content is the node payload. The runtime never inspects it except
	// when synthesizing composite Action nodes.
	Content any

	in  *progression.Progression
	out *progression.Progression
}

// NewNode creates a detached node with the given content.
func NewNode(content any) *Node {
	return &Node{
		Element: element.New(),
		Content: content,
		in:      progression.New("in"),
		out:     progression.New("out"),
	}
}

// InEdgeIDs returns a snapshot of the ids of edges pointing at the node.
func (n *Node) InEdgeIDs() []element.ID {
	return n.in.Values()
}

// OutEdgeIDs returns a snapshot of the ids of edges leaving the node.
func (n *Node) OutEdgeIDs() []element.ID {
	return n.out.Values()
}

// Clone returns a node with the same identity and content but a private
// copy of the relation index, so the receiver of a node message cannot
// corrupt the sender's graph.
func (n *Node) Clone() *Node {
	return &Node{
		Element: n.Element,
		Content: n.Content,
		in:      n.in.Copy(),
		out:     n.out.Copy(),
	}
}

// Action is the content of a synthesized composite node: the original
// instruction plus every resource merged in from bundled successors.
type Action struct {
	Instruction any
	Resources   []any
}
