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

// Package graph provides the directed workflow graph: addressable nodes,
// conditional edges and cycle detection. A Graph is not internally
// synchronized beyond its piles; during a run it is owned exclusively by
// its traversal engine.
package graph

import (
	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Graph holds nodes and edges and keeps the per-node relation index
// consistent through every mutation.
type Graph struct {
	nodes *pile.Pile[*Node]
	edges *pile.Pile[*Edge]
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: pile.New[*Node](),
		edges: pile.New[*Edge](),
	}
}

// AddNode adds a detached node to the graph.
func (g *Graph) AddNode(n *Node) error {
	if g.nodes.Contains(n.ID()) {
		return errors.ErrItemAlreadyExists.GenWithStackByArgs(n.ID())
	}
	return g.nodes.Put(n)
}

// GetNode returns the node with the given id.
func (g *Graph) GetNode(id element.ID) (*Node, error) {
	n, err := g.nodes.Get(id)
	if err != nil {
		return nil, errors.ErrNodeNotFound.GenWithStackByArgs(id)
	}
	return n, nil
}

// HasNode reports whether the node is a member of the graph.
func (g *Graph) HasNode(id element.ID) bool {
	return g.nodes.Contains(id)
}

// RemoveNode removes the node and cascades: every edge referencing it is
// removed as well and peer relation indexes are fixed up.
func (g *Graph) RemoveNode(id element.ID) error {
	n, err := g.GetNode(id)
	if err != nil {
		return err
	}
	for _, edgeID := range n.InEdgeIDs() {
		if err := g.RemoveEdge(edgeID); err != nil {
			return errors.Trace(err)
		}
	}
	for _, edgeID := range n.OutEdgeIDs() {
		if err := g.RemoveEdge(edgeID); err != nil {
			return errors.Trace(err)
		}
	}
	g.nodes.Exclude(id)
	return nil
}

// AddEdge connects two member nodes, head -> tail.
func (g *Graph) AddEdge(head, tail element.ID, opts ...EdgeOption) (*Edge, error) {
	if !g.nodes.Contains(head) {
		return nil, errors.ErrEdgeEndpointMissing.GenWithStackByArgs(head)
	}
	if !g.nodes.Contains(tail) {
		return nil, errors.ErrEdgeEndpointMissing.GenWithStackByArgs(tail)
	}

	e := &Edge{
		Element: element.New(),
		Head:    head,
		Tail:    tail,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := g.edges.Put(e); err != nil {
		return nil, errors.Trace(err)
	}

	headNode, _ := g.nodes.Get(head)
	tailNode, _ := g.nodes.Get(tail)
	headNode.out.Append(e.ID())
	tailNode.in.Append(e.ID())
	return e, nil
}

// GetEdge returns the edge with the given id.
func (g *Graph) GetEdge(id element.ID) (*Edge, error) {
	e, err := g.edges.Get(id)
	if err != nil {
		return nil, errors.ErrEdgeNotFound.GenWithStackByArgs(id)
	}
	return e, nil
}

// RemoveEdge removes the edge and detaches it from both endpoints.
func (g *Graph) RemoveEdge(id element.ID) error {
	e, err := g.GetEdge(id)
	if err != nil {
		return err
	}
	if headNode, err := g.nodes.Get(e.Head); err == nil {
		headNode.out.Exclude(id)
	}
	if tailNode, err := g.nodes.Get(e.Tail); err == nil {
		tailNode.in.Exclude(id)
	}
	g.edges.Exclude(id)
	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.nodes.Len()
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges.Len()
}

// GetHeads returns every node without incoming edges, in insertion
// order. These are the entry points of a traversal.
func (g *Graph) GetHeads() []*Node {
	var heads []*Node
	g.nodes.Range(func(n *Node) bool {
		if len(n.InEdgeIDs()) == 0 {
			heads = append(heads, n)
		}
		return true
	})
	return heads
}

// OutEdges returns the edges leaving the node, in creation order.
func (g *Graph) OutEdges(id element.ID) ([]*Edge, error) {
	n, err := g.GetNode(id)
	if err != nil {
		return nil, err
	}
	return g.resolveEdges(n.OutEdgeIDs())
}

// InEdges returns the edges pointing at the node, in creation order.
func (g *Graph) InEdges(id element.ID) ([]*Edge, error) {
	n, err := g.GetNode(id)
	if err != nil {
		return nil, err
	}
	return g.resolveEdges(n.InEdgeIDs())
}

func (g *Graph) resolveEdges(ids []element.ID) ([]*Edge, error) {
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		e, err := g.GetEdge(id)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, e)
	}
	return out, nil
}

// GetSuccessors returns the nodes reachable over one outgoing edge.
func (g *Graph) GetSuccessors(id element.ID) ([]*Node, error) {
	edges, err := g.OutEdges(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		n, err := g.GetNode(e.Tail)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, n)
	}
	return out, nil
}

// GetPredecessors returns the nodes with an edge pointing at id.
func (g *Graph) GetPredecessors(id element.ID) ([]*Node, error) {
	edges, err := g.InEdges(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		n, err := g.GetNode(e.Head)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, n)
	}
	return out, nil
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// IsAcyclic reports whether the graph contains no directed cycle. The
// check is an iterative depth-first search with three-state marks, an
// in-progress node reached again closes a cycle.
func (g *Graph) IsAcyclic() bool {
	colors := make(map[element.ID]int, g.nodes.Len())

	type frame struct {
		id   element.ID
		next []element.ID
	}

	for _, rootID := range g.nodes.Keys() {
		if colors[rootID] != colorWhite {
			continue
		}
		colors[rootID] = colorGray
		stack := []frame{{id: rootID, next: g.successorIDs(rootID)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.next) == 0 {
				colors[top.id] = colorBlack
				stack = stack[:len(stack)-1]
				continue
			}
			succ := top.next[0]
			top.next = top.next[1:]
			switch colors[succ] {
			case colorGray:
				return false
			case colorWhite:
				colors[succ] = colorGray
				stack = append(stack, frame{id: succ, next: g.successorIDs(succ)})
			}
		}
	}
	return true
}

func (g *Graph) successorIDs(id element.ID) []element.ID {
	n, err := g.nodes.Get(id)
	if err != nil {
		return nil
	}
	edgeIDs := n.OutEdgeIDs()
	out := make([]element.ID, 0, len(edgeIDs))
	for _, edgeID := range edgeIDs {
		e, err := g.edges.Get(edgeID)
		if err != nil {
			continue
		}
		out = append(out, e.Tail)
	}
	return out
}
