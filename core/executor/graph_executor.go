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
	"sync"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/graph"
	"github.com/lion-agi/lionagi-sub006/core/mail"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// gateKey identifies one pending executable condition check. Two
// branches may gate on the same edge concurrently, so the asking actor
// is part of the key.
type gateKey struct {
	edge  element.ID
	asker element.ID
}

// GraphExecutor interprets traversal mail against a single Graph. It
// owns the graph exclusively for the duration of a run; callers must
// not mutate the graph while the executor is live.
//
// Start mail moves the executor from idle to running and answers with
// the graph heads. Node and NodeID mail name the asker's current
// position and are answered with the targets of the passing outgoing
// edges: End for none, Node for one, NodeList for several.
type GraphExecutor struct {
	element.Element

	cfg *config.ExecutorConfig
	clk clock.Clock

	graph *graph.Graph
	box   *mail.Mailbox

	running atomic.Bool
	stopped atomic.Bool

	mu    sync.Mutex
	gates map[gateKey]chan bool
}

// NewGraphExecutor builds a graph executor around g. A nil cfg falls
// back to the executor section of the default config.
func NewGraphExecutor(cfg *config.ExecutorConfig, g *graph.Graph, opts ...Option) *GraphExecutor {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Executor
	}
	o := newOptions(opts...)
	e := &GraphExecutor{
		Element: element.New(),
		cfg:     cfg,
		clk:     o.clk,
		graph:   g,
		gates:   make(map[gateKey]chan bool),
	}
	e.box = mail.NewMailbox(e.ID())
	e.box.Intercept(e.resolveAnswer)
	return e
}

// Mailbox implements the mail.Source interface.
func (e *GraphExecutor) Mailbox() *mail.Mailbox {
	return e.box
}

// IsRunning reports whether a Start mail has been interpreted and the
// executor has not been stopped since.
func (e *GraphExecutor) IsRunning() bool {
	return e.running.Load() && !e.stopped.Load()
}

// Stop makes Execute return after the step in flight, if any.
func (e *GraphExecutor) Stop() {
	e.stopped.Store(true)
}

// Execute interprets inbox mail until the context is canceled or the
// executor is stopped.
func (e *GraphExecutor) Execute(ctx context.Context) error {
	ticker := e.clk.Ticker(e.cfg.RefreshInterval.Duration())
	defer ticker.Stop()

	log.Info("graph executor starts",
		zap.String("executor", e.ID().String()))
	for {
		if e.stopped.Load() {
			log.Info("graph executor is stopped",
				zap.String("executor", e.ID().String()))
			return nil
		}
		if err := e.Forward(ctx); err != nil {
			return errors.Trace(err)
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-ticker.C:
		}
	}
}

// Forward drains and interprets the inbox once. The first failing mail
// aborts the drain and its error is fatal to the executor.
func (e *GraphExecutor) Forward(ctx context.Context) error {
	for {
		m, ok := e.box.NextIn()
		if !ok {
			return nil
		}
		if err := e.handle(ctx, m); err != nil {
			return errors.WrapError(errors.ErrTraversalFailed, err,
				m.Category.String(), positionOf(m))
		}
	}
}

func (e *GraphExecutor) handle(ctx context.Context, m *mail.Mail) error {
	handledMailCounter.WithLabelValues(m.Category.String()).Inc()
	switch m.Category {
	case mail.CategoryStart:
		return e.handleStart(m)
	case mail.CategoryNode:
		if m.Node == nil {
			return errors.ErrNodeNotFound.GenWithStackByArgs(element.Zero)
		}
		return e.advance(ctx, m.Node.ID(), m.Sender)
	case mail.CategoryNodeID:
		return e.advance(ctx, m.NodeID, m.Sender)
	case mail.CategoryEnd:
		e.Stop()
		return nil
	default:
		return errors.ErrUnknownMailCategory.GenWithStackByArgs(m.Category)
	}
}

// handleStart checks the graph is executable and answers with its
// heads. An empty graph ends the session immediately.
func (e *GraphExecutor) handleStart(m *mail.Mail) error {
	if !e.graph.IsAcyclic() {
		return errors.ErrCyclicGraph.GenWithStackByArgs()
	}
	e.running.Store(true)
	heads := e.graph.GetHeads()
	nodes := make([]*graph.Node, 0, len(heads))
	for _, h := range heads {
		nodes = append(nodes, h.Clone())
	}
	e.reply(m.Sender, nodes)
	return nil
}

// advance enumerates the passing outgoing edges of the asker's current
// position and answers with their synthesized targets.
func (e *GraphExecutor) advance(ctx context.Context, pos element.ID, asker element.ID) error {
	if _, err := e.graph.GetNode(pos); err != nil {
		return errors.Trace(err)
	}
	edges, err := e.graph.OutEdges(pos)
	if err != nil {
		return errors.Trace(err)
	}
	var nexts []*graph.Node
	for _, edge := range edges {
		if edge.Bundle {
			continue
		}
		allowed, err := e.checkEdge(ctx, edge, asker)
		if err != nil {
			return errors.Trace(err)
		}
		if !allowed {
			continue
		}
		next, err := e.synthesize(edge.Tail)
		if err != nil {
			return errors.Trace(err)
		}
		nexts = append(nexts, next)
	}
	e.reply(asker, nexts)
	return nil
}

func (e *GraphExecutor) checkEdge(ctx context.Context, edge *graph.Edge, asker element.ID) (bool, error) {
	cond := edge.Condition
	if cond == nil {
		return true, nil
	}
	if cond.Source() == graph.SourceStructure {
		return cond.Apply(ctx, graph.Env{Graph: e.graph, Edge: edge})
	}
	return e.askCondition(ctx, edge, asker)
}

// askCondition mails the condition to the asking actor and blocks on a
// single-shot gate until the answer is delivered, the timeout fires or
// the context is canceled. The answer round trip needs a concurrently
// running mail manager and asker loop.
func (e *GraphExecutor) askCondition(ctx context.Context, edge *graph.Edge, asker element.ID) (bool, error) {
	key := gateKey{edge: edge.ID(), asker: asker}
	gate := make(chan bool, 1)
	e.mu.Lock()
	e.gates[key] = gate
	e.mu.Unlock()

	e.box.Append(mail.AskCondition(e.ID(), asker, edge.ID(), edge.Condition))

	timer := e.clk.Timer(e.cfg.ConditionTimeout.Duration())
	defer timer.Stop()
	select {
	case allowed := <-gate:
		return allowed, nil
	case <-timer.C:
		e.dropGate(key)
		return false, errors.ErrConditionTimeout.GenWithStackByArgs(edge.ID())
	case <-ctx.Done():
		e.dropGate(key)
		return false, errors.Trace(ctx.Err())
	}
}

func (e *GraphExecutor) dropGate(key gateKey) {
	e.mu.Lock()
	delete(e.gates, key)
	e.mu.Unlock()
}

// resolveAnswer is the mailbox interceptor. It consumes condition
// answers before they are filed into the inbox and wakes the gate the
// matching askCondition call is blocked on. It runs on the delivering
// goroutine under the mailbox lock and must not call back into the
// mailbox.
func (e *GraphExecutor) resolveAnswer(m *mail.Mail) bool {
	if m.Category != mail.CategoryCondition || m.Answer == nil {
		return false
	}
	key := gateKey{edge: m.Answer.EdgeID, asker: m.Sender}
	e.mu.Lock()
	gate, ok := e.gates[key]
	if ok {
		delete(e.gates, key)
	}
	e.mu.Unlock()
	if !ok {
		log.Warn("condition answer has no waiting check, dropped",
			zap.String("edge", m.Answer.EdgeID.String()),
			zap.String("sender", m.Sender.String()))
		return true
	}
	gate <- m.Answer.Allowed
	return true
}

// synthesize resolves an edge target, folding the contents reached over
// its outgoing bundle edges into one composite action node. The
// composite keeps the target's identity so a follow-up NodeID ask
// continues from the same graph position.
func (e *GraphExecutor) synthesize(tailID element.ID) (*graph.Node, error) {
	target, err := e.graph.GetNode(tailID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	outs, err := e.graph.OutEdges(tailID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var resources []any
	for _, out := range outs {
		if !out.Bundle {
			continue
		}
		bundled, err := e.graph.GetNode(out.Tail)
		if err != nil {
			return nil, errors.Trace(err)
		}
		resources = append(resources, bundled.Content)
	}
	next := target.Clone()
	if len(resources) > 0 {
		next.Content = &graph.Action{
			Instruction: target.Content,
			Resources:   resources,
		}
	}
	return next, nil
}

func (e *GraphExecutor) reply(recipient element.ID, nodes []*graph.Node) {
	switch len(nodes) {
	case 0:
		e.box.Append(mail.EndMail(e.ID(), recipient))
	case 1:
		e.box.Append(mail.NodeMail(e.ID(), recipient, nodes[0]))
	default:
		e.box.Append(mail.NodeListMail(e.ID(), recipient, nodes))
	}
}

// positionOf extracts the best node reference a mail carries, for error
// reporting.
func positionOf(m *mail.Mail) string {
	switch {
	case m.Node != nil:
		return m.Node.ID().String()
	case m.NodeID != element.Zero:
		return m.NodeID.String()
	default:
		return "-"
	}
}
