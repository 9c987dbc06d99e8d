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

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/graph"
	"github.com/lion-agi/lionagi-sub006/core/mail"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/core/progression"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// BranchExecutor drives one traversal position through the graph
// executor. Every node it is handed goes through the Performer, the
// outcome is journaled, and the next position is asked for by node id.
// A NodeList answer is not consumed locally but forwarded to the
// coordinator, which owns fan-out.
type BranchExecutor struct {
	element.Element

	cfg *config.ExecutorConfig
	clk clock.Clock

	box *mail.Mailbox

	graphID element.ID
	coordID element.ID

	performer Performer
	scope     map[string]any

	journal *pile.Pile[*Record]
	trace   *progression.Progression

	stopped atomic.Bool
	ended   atomic.Bool
}

// NewBranchExecutor builds an idle branch wired to the given graph
// executor and coordinator ids. A nil cfg falls back to the executor
// section of the default config.
func NewBranchExecutor(
	cfg *config.ExecutorConfig,
	graphID, coordID element.ID,
	performer Performer,
	opts ...Option,
) *BranchExecutor {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Executor
	}
	o := newOptions(opts...)
	b := &BranchExecutor{
		Element:   element.New(),
		cfg:       cfg,
		clk:       o.clk,
		graphID:   graphID,
		coordID:   coordID,
		performer: performer,
		scope:     o.scope,
		journal:   pile.New[*Record](),
		trace:     progression.New("trace"),
	}
	b.box = mail.NewMailbox(b.ID())
	return b
}

// Mailbox implements the mail.Source interface.
func (b *BranchExecutor) Mailbox() *mail.Mailbox {
	return b.box
}

// Journal returns the branch's journal pile. It stays live while the
// branch runs; readers get consistent snapshots through the pile's own
// locking.
func (b *BranchExecutor) Journal() *pile.Pile[*Record] {
	return b.journal
}

// Trace returns the ordered node ids this branch has performed. The
// progression is owned by the branch loop and must only be read after
// the branch has ended.
func (b *BranchExecutor) Trace() *progression.Progression {
	return b.trace
}

// Ended reports whether the branch has received its End mail.
func (b *BranchExecutor) Ended() bool {
	return b.ended.Load()
}

// Stop makes Execute return after the step in flight, if any.
func (b *BranchExecutor) Stop() {
	b.stopped.Store(true)
}

// Clone returns a new branch with a fresh identity carrying copies of
// this branch's journal and trace, sharing its performer and a shallow
// copy of its scope. The clone is not registered with any mail manager.
func (b *BranchExecutor) Clone() *BranchExecutor {
	nb := NewBranchExecutor(b.cfg, b.graphID, b.coordID, b.performer,
		WithClock(b.clk), WithScope(cloneScope(b.scope)))
	for _, rec := range b.journal.Values() {
		// records are immutable once journaled, sharing them is safe
		_ = nb.journal.Put(rec)
	}
	nb.trace.Extend(b.trace)
	return nb
}

// Execute interprets inbox mail until the context is canceled or the
// branch is stopped.
func (b *BranchExecutor) Execute(ctx context.Context) error {
	ticker := b.clk.Ticker(b.cfg.RefreshInterval.Duration())
	defer ticker.Stop()

	log.Info("branch executor starts",
		zap.String("branch", b.ID().String()))
	for {
		if b.stopped.Load() {
			log.Info("branch executor is stopped",
				zap.String("branch", b.ID().String()),
				zap.Bool("ended", b.ended.Load()))
			return nil
		}
		if err := b.Forward(ctx); err != nil {
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
// aborts the drain and its error is fatal to the branch.
func (b *BranchExecutor) Forward(ctx context.Context) error {
	for {
		m, ok := b.box.NextIn()
		if !ok {
			return nil
		}
		if err := b.handle(ctx, m); err != nil {
			return errors.WrapError(errors.ErrTraversalFailed, err,
				m.Category.String(), positionOf(m))
		}
	}
}

func (b *BranchExecutor) handle(ctx context.Context, m *mail.Mail) error {
	switch m.Category {
	case mail.CategoryStart:
		b.box.Append(mail.StartMail(b.ID(), b.graphID))
		return nil
	case mail.CategoryNode:
		return b.perform(ctx, m.Node)
	case mail.CategoryNodeList:
		b.box.Append(mail.NodeListMail(b.ID(), b.coordID, m.Nodes))
		return nil
	case mail.CategoryCondition:
		return b.answer(ctx, m)
	case mail.CategoryEnd:
		b.finish()
		return nil
	default:
		return errors.ErrUnknownMailCategory.GenWithStackByArgs(m.Category)
	}
}

// perform runs the node through the performer, journals the outcome and
// asks the graph executor for the next position.
func (b *BranchExecutor) perform(ctx context.Context, node *graph.Node) error {
	if node == nil {
		return errors.ErrNodeNotFound.GenWithStackByArgs(element.Zero)
	}
	result, err := b.performer.Perform(ctx, node)
	if err != nil {
		return errors.Trace(err)
	}
	if err := b.journal.Put(NewRecord(node.ID(), result)); err != nil {
		return errors.Trace(err)
	}
	b.trace.Append(node.ID())
	b.box.Append(mail.NodeIDMail(b.ID(), b.graphID, node.ID()))
	return nil
}

// answer evaluates an executable edge condition against the branch's
// scope and mails the verdict back.
func (b *BranchExecutor) answer(ctx context.Context, m *mail.Mail) error {
	if m.Ask == nil || m.Ask.Condition == nil {
		return errors.ErrUnknownMailCategory.GenWithStackByArgs(m.Category)
	}
	allowed, err := m.Ask.Condition.Apply(ctx, graph.Env{Scope: b.scope})
	if err != nil {
		return errors.Trace(err)
	}
	b.box.Append(mail.AnswerCondition(b.ID(), m.Sender, m.Ask.EdgeID, allowed))
	return nil
}

// finish is the terminal transition: no further mail is accepted, the
// pending End is forwarded to the coordinator and the run loop winds
// down.
func (b *BranchExecutor) finish() {
	b.ended.Store(true)
	b.box.Close()
	b.box.Append(mail.EndMail(b.ID(), b.coordID))
	b.Stop()
}

func cloneScope(scope map[string]any) map[string]any {
	if scope == nil {
		return nil
	}
	c := make(map[string]any, len(scope))
	for k, v := range scope {
		c[k] = v
	}
	return c
}
