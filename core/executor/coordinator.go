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

// Package executor runs graph traversals as a set of mail-coordinated
// actors: a GraphExecutor interpreting positions against the graph,
// one BranchExecutor per concurrent traversal position, and a
// Coordinator owning the mail manager, the branch fan-out and the
// session lifecycle.
package executor

import (
	"context"
	"time"

	"github.com/pingcap/failpoint"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/graph"
	"github.com/lion-agi/lionagi-sub006/core/mail"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Coordinator owns one traversal session: the mail manager, the graph
// executor and every branch. It interprets the mail only branches do
// not consume themselves, NodeList fan-outs and End signals, and
// declares the session complete once every live branch has ended.
//
// A session is driven either by Run, which wires all actor loops into
// one errgroup, or step by step through Forward. Executable edge
// conditions need the concurrent loops of Run; a manually driven cycle
// would block on the answer round trip until ConditionTimeout.
type Coordinator struct {
	element.Element

	cfg *config.Config
	clk clock.Clock

	box *mail.Mailbox

	manager   *mail.Manager
	graphExec *GraphExecutor
	branches  *pile.Pile[*BranchExecutor]
	seedID    element.ID

	performer Performer
	scope     map[string]any

	// quota bounds the number of concurrently live branches, the seed
	// branch included. Slots are released as branches end.
	quota *semaphore.Weighted

	// launchBranch starts the run loop of a newly cloned branch. It is
	// set by Run and stays nil when the session is driven manually.
	launchBranch func(b *BranchExecutor)

	live      atomic.Int64
	endCount  atomic.Int64
	stopped   atomic.Bool
	completed atomic.Bool
}

// NewCoordinator builds a session around g. The performer is shared by
// every branch. A nil cfg falls back to the default config; a partial
// cfg has its missing sections filled in.
func NewCoordinator(cfg *config.Config, g *graph.Graph, performer Performer, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, errors.Trace(err)
	}
	o := newOptions(opts...)
	c := &Coordinator{
		Element:   element.New(),
		cfg:       cfg,
		clk:       o.clk,
		branches:  pile.New[*BranchExecutor](),
		performer: performer,
		scope:     o.scope,
		quota:     semaphore.NewWeighted(cfg.Executor.MaxBranches),
	}
	c.box = mail.NewMailbox(c.ID())
	c.manager = mail.NewManager(cfg.Mail, mail.WithClock(o.clk))
	c.graphExec = NewGraphExecutor(cfg.Executor, g, WithClock(o.clk))

	seed := NewBranchExecutor(cfg.Executor, c.graphExec.ID(), c.ID(),
		performer, WithClock(o.clk), WithScope(o.scope))
	if err := c.branches.Put(seed); err != nil {
		return nil, errors.Trace(err)
	}
	if err := c.manager.AddSources(c, c.graphExec, seed); err != nil {
		return nil, errors.Trace(err)
	}
	c.seedID = seed.ID()
	// MaxBranches is validated to be at least 1, the seed slot is
	// always available.
	c.quota.TryAcquire(1)
	c.live.Store(1)
	activeBranchesGauge.Inc()
	return c, nil
}

// Mailbox implements the mail.Source interface.
func (c *Coordinator) Mailbox() *mail.Mailbox {
	return c.box
}

// Branches returns a snapshot of every branch of the session, the seed
// branch first.
func (c *Coordinator) Branches() []*BranchExecutor {
	return c.branches.Values()
}

// Completed reports whether every live branch has ended.
func (c *Coordinator) Completed() bool {
	return c.completed.Load()
}

// Start queues the initial Start signal for the seed branch. Run calls
// it; manual drivers call it once before the first Forward.
func (c *Coordinator) Start() {
	c.box.Append(mail.StartMail(c.ID(), c.seedID))
}

// Stop signals every actor of the session to stop cooperatively.
func (c *Coordinator) Stop() {
	c.stopped.Store(true)
	c.manager.Stop()
	c.graphExec.Stop()
	for _, b := range c.branches.Values() {
		b.Stop()
	}
}

// Run drives the session to completion: it starts the mail manager,
// the graph executor, the branches and the coordinator's own loop in
// one errgroup, sends the initial Start and blocks until the traversal
// completes or an actor fails. The first actor failure cancels the
// group and is returned.
func (c *Coordinator) Run(ctx context.Context) error {
	if c.stopped.Load() {
		return errors.ErrExecutorStopped.GenWithStackByArgs(c.ID())
	}
	eg, ctx := errgroup.WithContext(ctx)
	c.launchBranch = func(b *BranchExecutor) {
		eg.Go(func() error {
			return b.Execute(ctx)
		})
	}
	eg.Go(func() error {
		return c.manager.Execute(ctx)
	})
	eg.Go(func() error {
		return c.graphExec.Execute(ctx)
	})
	for _, b := range c.branches.Values() {
		br := b
		eg.Go(func() error {
			return br.Execute(ctx)
		})
	}
	eg.Go(func() error {
		return c.Execute(ctx)
	})

	log.Info("graph traversal session starts",
		zap.String("coordinator", c.ID().String()))
	c.Start()

	err := eg.Wait()
	c.launchBranch = nil
	if err != nil {
		return errors.Trace(err)
	}
	log.Info("graph traversal session finished",
		zap.String("coordinator", c.ID().String()),
		zap.Int("branches", c.branches.Len()))
	return nil
}

// Execute interprets the coordinator's own inbox until the context is
// canceled or the session is stopped.
func (c *Coordinator) Execute(ctx context.Context) error {
	ticker := c.clk.Ticker(c.cfg.Executor.RefreshInterval.Duration())
	defer ticker.Stop()

	for {
		if c.stopped.Load() {
			return nil
		}
		if err := c.forwardInbox(ctx); err != nil {
			return errors.Trace(err)
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-ticker.C:
		}
	}
}

// Forward runs one manual mail cycle: collect and deliver pending
// mail, then let every actor interpret its inbox once. Callers drive
// the session by looping Forward until Completed reports true.
func (c *Coordinator) Forward(ctx context.Context) error {
	if c.stopped.Load() && !c.completed.Load() {
		return errors.ErrExecutorStopped.GenWithStackByArgs(c.ID())
	}
	if err := c.manager.CollectAll(); err != nil {
		return errors.Trace(err)
	}
	if err := c.manager.SendAll(); err != nil {
		return errors.Trace(err)
	}
	if err := c.graphExec.Forward(ctx); err != nil {
		return errors.Trace(err)
	}
	for _, b := range c.branches.Values() {
		if err := b.Forward(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	return c.forwardInbox(ctx)
}

func (c *Coordinator) forwardInbox(ctx context.Context) error {
	for {
		m, ok := c.box.NextIn()
		if !ok {
			return nil
		}
		if err := c.handle(ctx, m); err != nil {
			return errors.WrapError(errors.ErrTraversalFailed, err,
				m.Category.String(), positionOf(m))
		}
	}
}

func (c *Coordinator) handle(ctx context.Context, m *mail.Mail) error {
	switch m.Category {
	case mail.CategoryNodeList:
		return c.fanOut(ctx, m)
	case mail.CategoryEnd:
		c.onBranchEnd(m.Sender)
		return nil
	default:
		return errors.ErrUnknownMailCategory.GenWithStackByArgs(m.Category)
	}
}

// fanOut splits a NodeList over branches: the sending branch continues
// with the first target, each further target goes to a fresh clone of
// the sender. Cloning is bounded by the branch quota; exhausting it
// fails the session rather than deadlocking the coordinator loop on
// slots only this loop can release.
func (c *Coordinator) fanOut(ctx context.Context, m *mail.Mail) error {
	failpoint.Inject("coordinatorFanOutDelay", func(val failpoint.Value) {
		if ms, ok := val.(int); ok {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
	})
	origin, err := c.branches.Get(m.Sender)
	if err != nil {
		return errors.Trace(err)
	}
	if len(m.Nodes) == 0 {
		return nil
	}
	c.box.Append(mail.NodeMail(c.ID(), origin.ID(), m.Nodes[0]))
	for _, node := range m.Nodes[1:] {
		if !c.quota.TryAcquire(1) {
			return errors.ErrBranchQuotaExceeded.GenWithStackByArgs(
				c.cfg.Executor.MaxBranches)
		}
		clone := origin.Clone()
		if err := c.branches.Put(clone); err != nil {
			c.quota.Release(1)
			return errors.Trace(err)
		}
		if err := c.manager.AddSources(clone); err != nil {
			c.quota.Release(1)
			return errors.Trace(err)
		}
		c.live.Add(1)
		activeBranchesGauge.Inc()
		fanOutCounter.Inc()
		if c.launchBranch != nil {
			c.launchBranch(clone)
		}
		c.box.Append(mail.NodeMail(c.ID(), clone.ID(), node))
		log.Info("branch cloned for fan-out",
			zap.String("origin", origin.ID().String()),
			zap.String("clone", clone.ID().String()),
			zap.String("node", node.ID().String()))
	}
	return nil
}

func (c *Coordinator) onBranchEnd(branchID element.ID) {
	c.quota.Release(1)
	activeBranchesGauge.Dec()
	ended := c.endCount.Add(1)
	log.Info("branch ended",
		zap.String("branch", branchID.String()),
		zap.Int64("ended", ended),
		zap.Int64("live", c.live.Load()))
	if ended == c.live.Load() {
		c.completed.Store(true)
		c.Stop()
	}
}
