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

// Package mail provides the envelope type, per-actor mailboxes and the
// manager that routes envelopes between them.
//
// Routing is pull based: Collect drains a sender's outbox into
// per-(recipient, sender) FIFO buckets, Send drains a recipient's
// buckets into its mailbox. Delivery is at-most-once per cycle and FIFO
// within one (sender, recipient) pair; there is no ordering guarantee
// across senders.
package mail

import (
	"context"
	"sync"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/core/progression"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Source is an addressable actor wired into a Manager.
type Source interface {
	ID() element.ID
	Mailbox() *Mailbox
}

// ManagerOption configures a Manager on construction.
type ManagerOption func(*Manager)

// WithClock replaces the manager's clock, used by tests to drive the
// routing loop deterministically.
func WithClock(clk clock.Clock) ManagerOption {
	return func(m *Manager) {
		m.clk = clk
	}
}

// Manager routes mail between registered sources.
type Manager struct {
	cfg *config.MailConfig
	clk clock.Clock

	sources *pile.Pile[Source]

	// mu guards queues and the buckets hanging off it.
	mu sync.Mutex
	// queues files undelivered mail ids per recipient, per sender.
	queues    map[element.ID]map[element.ID]*progression.Progression
	envelopes *pile.Pile[*Mail]

	stopped atomic.Bool
}

// NewManager creates a Manager. A nil cfg falls back to defaults.
func NewManager(cfg *config.MailConfig, opts ...ManagerOption) *Manager {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Mail
	}
	m := &Manager{
		cfg:       cfg,
		clk:       clock.New(),
		sources:   pile.New[Source](),
		queues:    make(map[element.ID]map[element.ID]*progression.Progression),
		envelopes: pile.New[*Mail](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSources registers sources. Registering an id twice or registering
// on a stopped manager is an error.
func (m *Manager) AddSources(srcs ...Source) error {
	if m.stopped.Load() {
		return errors.ErrManagerStopped.GenWithStackByArgs()
	}
	for _, src := range srcs {
		if m.sources.Contains(src.ID()) {
			return errors.ErrItemAlreadyExists.GenWithStackByArgs(src.ID())
		}
		if err := m.sources.Put(src); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// RemoveSource unregisters a source and drops its undelivered mail.
func (m *Manager) RemoveSource(id element.ID) error {
	if _, err := m.sources.Pop(id); err != nil {
		return errors.ErrSourceNotFound.GenWithStackByArgs(id)
	}

	m.mu.Lock()
	buckets := m.queues[id]
	delete(m.queues, id)
	m.mu.Unlock()

	for _, bucket := range buckets {
		for _, mailID := range bucket.Values() {
			m.envelopes.Exclude(mailID)
		}
	}
	return nil
}

// HasSource reports whether the id is registered.
func (m *Manager) HasSource(id element.ID) bool {
	return m.sources.Contains(id)
}

// Collect drains the sender's outbox into the routing queues. Mail
// addressed to an unregistered recipient is dropped and reported.
func (m *Manager) Collect(senderID element.ID) error {
	src, err := m.sources.Get(senderID)
	if err != nil {
		return errors.ErrSourceNotFound.GenWithStackByArgs(senderID)
	}

	box := src.Mailbox()
	for {
		mail, ok := box.PopOut()
		if !ok {
			return nil
		}
		if !m.sources.Contains(mail.Recipient) {
			droppedMailCounter.WithLabelValues(reasonUnregistered).Inc()
			log.Error("dropping mail for unregistered recipient",
				zap.String("mail", mail.ID().String()),
				zap.String("sender", senderID.String()),
				zap.String("recipient", mail.Recipient.String()))
			return errors.ErrSourceNotFound.GenWithStackByArgs(mail.Recipient)
		}
		if err := m.envelopes.Include(mail); err != nil {
			return errors.Trace(err)
		}

		m.mu.Lock()
		buckets, ok := m.queues[mail.Recipient]
		if !ok {
			buckets = make(map[element.ID]*progression.Progression)
			m.queues[mail.Recipient] = buckets
		}
		bucket, ok := buckets[senderID]
		if !ok {
			bucket = progression.New(string(senderID))
			buckets[senderID] = bucket
		}
		bucket.Append(mail.ID())
		m.mu.Unlock()

		collectedMailCounter.WithLabelValues(mail.Category.String()).Inc()
		pendingEnvelopesGauge.Set(float64(m.envelopes.Len()))
	}
}

// Send drains every queued bucket for the recipient into its mailbox,
// FIFO within each sender bucket. Delivery to a closed mailbox is
// logged and dropped.
func (m *Manager) Send(recipientID element.ID) error {
	src, err := m.sources.Get(recipientID)
	if err != nil {
		return errors.ErrSourceNotFound.GenWithStackByArgs(recipientID)
	}
	box := src.Mailbox()

	m.mu.Lock()
	buckets := m.queues[recipientID]
	delete(m.queues, recipientID)
	m.mu.Unlock()

	for _, bucket := range buckets {
		for {
			mailID, err := bucket.PopLeft()
			if err != nil {
				break
			}
			mail, err := m.envelopes.Pop(mailID)
			if err != nil {
				continue
			}
			if err := box.Deliver(mail); err != nil {
				if errors.ErrMailboxClosed.Equal(err) {
					droppedMailCounter.WithLabelValues(reasonClosed).Inc()
					log.Warn("dropping mail for closed mailbox",
						zap.String("mail", mail.ID().String()),
						zap.String("recipient", recipientID.String()),
						zap.String("category", mail.Category.String()))
					continue
				}
				return errors.Trace(err)
			}
			deliveredMailCounter.WithLabelValues(mail.Category.String()).Inc()
		}
	}
	pendingEnvelopesGauge.Set(float64(m.envelopes.Len()))
	return nil
}

// CollectAll runs Collect for every registered source. Per-source
// failures are combined, a failing source does not block the others.
func (m *Manager) CollectAll() error {
	var err error
	for _, id := range m.sources.Keys() {
		err = multierr.Append(err, m.Collect(id))
	}
	return err
}

// SendAll runs Send for every registered source. Per-source failures
// are combined, a failing source does not block the others.
func (m *Manager) SendAll() error {
	var err error
	for _, id := range m.sources.Keys() {
		err = multierr.Append(err, m.Send(id))
	}
	return err
}

// Execute loops collect/send cycles on the refresh interval until Stop
// is called or the context is canceled.
func (m *Manager) Execute(ctx context.Context) error {
	ticker := m.clk.Ticker(m.cfg.RefreshInterval.Duration())
	defer ticker.Stop()

	log.Info("mail manager starts",
		zap.Duration("refreshInterval", m.cfg.RefreshInterval.Duration()))
	for {
		if m.stopped.Load() {
			log.Info("mail manager is stopped")
			return nil
		}
		if err := m.CollectAll(); err != nil {
			return errors.Trace(err)
		}
		if err := m.SendAll(); err != nil {
			return errors.Trace(err)
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-ticker.C:
		}
	}
}

// Stop makes Execute return after the cycle in flight, if any.
func (m *Manager) Stop() {
	m.stopped.Store(true)
}
