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

package mail

import (
	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/graph"
)

// Category is the type of a Mail. The set is closed: handlers switch
// over it exhaustively and reject anything they do not understand.
type Category int

// categories of Mail
const (
	CategoryUnknown Category = iota
	// CategoryStart kicks off a traversal session.
	CategoryStart
	// CategoryEnd signals that a traversal position is exhausted.
	CategoryEnd
	// CategoryNode carries the single next node to process.
	CategoryNode
	// CategoryNodeList carries several next nodes, a fan-out.
	CategoryNodeList
	// CategoryNodeID asks for the successors of a position.
	CategoryNodeID
	// CategoryCondition carries an edge condition ask or its answer.
	CategoryCondition
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryStart:
		return "start"
	case CategoryEnd:
		return "end"
	case CategoryNode:
		return "node"
	case CategoryNodeList:
		return "node_list"
	case CategoryNodeID:
		return "node_id"
	case CategoryCondition:
		return "condition"
	default:
		return "unknown"
	}
}

// ConditionAsk asks the recipient to evaluate an executable edge
// condition against its own scope.
type ConditionAsk struct {
	EdgeID    element.ID
	Condition graph.Condition
}

// ConditionAnswer carries the verdict of an ask back to the asking
// traversal.
type ConditionAnswer struct {
	EdgeID  element.ID
	Allowed bool
}

// Mail is an addressed envelope. It is immutable after construction; a
// payload field other than the one matching Category stays nil.
type Mail struct {
	element.Element

	// Sender and Recipient are registered source ids.
	Sender    element.ID
	Recipient element.ID
	// Category is the type of the payload.
	Category Category

	// Node is set for CategoryNode.
	Node *graph.Node
	// Nodes is set for CategoryNodeList.
	Nodes []*graph.Node
	// NodeID is set for CategoryNodeID.
	NodeID element.ID
	// Ask is set for a CategoryCondition request.
	Ask *ConditionAsk
	// Answer is set for a CategoryCondition reply.
	Answer *ConditionAnswer
}

func newMail(sender, recipient element.ID, category Category) *Mail {
	return &Mail{
		Element:   element.New(),
		Sender:    sender,
		Recipient: recipient,
		Category:  category,
	}
}

// StartMail creates the mail that kicks off a traversal session.
func StartMail(sender, recipient element.ID) *Mail {
	return newMail(sender, recipient, CategoryStart)
}

// EndMail creates the mail that reports an exhausted position.
func EndMail(sender, recipient element.ID) *Mail {
	return newMail(sender, recipient, CategoryEnd)
}

// NodeMail creates the mail carrying the next node to process.
func NodeMail(sender, recipient element.ID, node *graph.Node) *Mail {
	m := newMail(sender, recipient, CategoryNode)
	m.Node = node
	return m
}

// NodeListMail creates the mail carrying a fan-out of next nodes.
func NodeListMail(sender, recipient element.ID, nodes []*graph.Node) *Mail {
	m := newMail(sender, recipient, CategoryNodeList)
	m.Nodes = nodes
	return m
}

// NodeIDMail creates the mail asking for the successors of a position.
func NodeIDMail(sender, recipient element.ID, nodeID element.ID) *Mail {
	m := newMail(sender, recipient, CategoryNodeID)
	m.NodeID = nodeID
	return m
}

// AskCondition creates the mail asking recipient to evaluate an edge
// condition.
func AskCondition(sender, recipient element.ID, edgeID element.ID, cond graph.Condition) *Mail {
	m := newMail(sender, recipient, CategoryCondition)
	m.Ask = &ConditionAsk{EdgeID: edgeID, Condition: cond}
	return m
}

// AnswerCondition creates the mail replying to a condition ask.
func AnswerCondition(sender, recipient element.ID, edgeID element.ID, allowed bool) *Mail {
	m := newMail(sender, recipient, CategoryCondition)
	m.Answer = &ConditionAnswer{EdgeID: edgeID, Allowed: allowed}
	return m
}
