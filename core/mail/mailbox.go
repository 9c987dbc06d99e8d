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
	"sync"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/core/progression"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Interceptor sees a mail at delivery time, before it is filed into the
// inbox. Returning true consumes the mail. The function runs on the
// deliverer's goroutine under the mailbox lock and must not call back
// into the Mailbox.
type Interceptor func(*Mail) bool

// Mailbox is one actor's boundary with the mail system. The owner
// appends outgoing mail and drains incoming mail; the Manager collects
// the outbox and delivers into the inbox. It is internally locked since
// owner and manager run on different goroutines.
type Mailbox struct {
	mu      sync.Mutex
	ownerID element.ID

	// pendingIns keeps one FIFO bucket of mail ids per sender; senders
	// are drained in bucket creation order.
	pendingIns  map[element.ID]*progression.Progression
	senderOrder *progression.Progression
	pendingOuts *progression.Progression
	envelopes   *pile.Pile[*Mail]

	interceptor Interceptor
	closed      bool
}

// NewMailbox creates a mailbox for the given owner.
func NewMailbox(owner element.ID) *Mailbox {
	return &Mailbox{
		ownerID:     owner,
		pendingIns:  make(map[element.ID]*progression.Progression),
		senderOrder: progression.New("senders"),
		pendingOuts: progression.New("outs"),
		envelopes:   pile.New[*Mail](),
	}
}

// Owner returns the owning source id.
func (b *Mailbox) Owner() element.ID {
	return b.ownerID
}

// Append files an outgoing mail into the outbox.
func (b *Mailbox) Append(m *Mail) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.envelopes.Include(m); err != nil {
		// unreachable, the pile carries no type restriction
		return
	}
	b.pendingOuts.Append(m.ID())
}

// PopOut removes and returns the oldest outgoing mail, if any.
func (b *Mailbox) PopOut() (*Mail, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := b.pendingOuts.PopLeft()
	if err != nil {
		return nil, false
	}
	m, err := b.envelopes.Pop(id)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Deliver files an incoming mail into the inbox. A closed mailbox
// rejects delivery with ErrMailboxClosed. An installed interceptor may
// consume the mail before it is filed.
func (b *Mailbox) Deliver(m *Mail) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.ErrMailboxClosed.GenWithStackByArgs(b.ownerID)
	}
	if b.interceptor != nil && b.interceptor(m) {
		return nil
	}

	bucket, ok := b.pendingIns[m.Sender]
	if !ok {
		bucket = progression.New(string(m.Sender))
		b.pendingIns[m.Sender] = bucket
		b.senderOrder.Append(m.Sender)
	}
	if err := b.envelopes.Include(m); err != nil {
		return errors.Trace(err)
	}
	bucket.Append(m.ID())
	return nil
}

// NextIn removes and returns the next incoming mail: FIFO within one
// sender, senders visited in bucket creation order.
func (b *Mailbox) NextIn() (*Mail, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sender := range b.senderOrder.Values() {
		bucket, ok := b.pendingIns[sender]
		if !ok || bucket.IsEmpty() {
			continue
		}
		id, err := bucket.PopLeft()
		if err != nil {
			continue
		}
		if bucket.IsEmpty() {
			delete(b.pendingIns, sender)
			b.senderOrder.Exclude(sender)
		}
		m, err := b.envelopes.Pop(id)
		if err != nil {
			continue
		}
		return m, true
	}
	return nil, false
}

// InCount returns the number of undrained incoming mails.
func (b *Mailbox) InCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, bucket := range b.pendingIns {
		total += bucket.Len()
	}
	return total
}

// OutCount returns the number of uncollected outgoing mails.
func (b *Mailbox) OutCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingOuts.Len()
}

// Intercept installs fn as the delivery interceptor. Passing nil
// removes it.
func (b *Mailbox) Intercept(fn Interceptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.interceptor = fn
}

// Close marks the mailbox terminal. Further deliveries fail with
// ErrMailboxClosed; the owner may still drain what was delivered.
func (b *Mailbox) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// IsClosed reports whether the mailbox is closed.
func (b *Mailbox) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
