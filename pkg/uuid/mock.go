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

package uuid

import (
	"fmt"

	"github.com/pingcap/log"
	"go.uber.org/atomic"
)

// MockGenerator is a mocked uuid generator that replays a pushed FIFO list
type MockGenerator struct {
	list []string
}

// NewMock creates a new MockGenerator instance
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

// NewString implements Generator.NewString
func (g *MockGenerator) NewString() (ret string) {
	if len(g.list) == 0 {
		log.Panic("empty uuid list, use Push() to add uuids before generating")
	}

	ret, g.list = g.list[0], g.list[1:]
	return
}

// Push adds a candidate uuid in FIFO list
func (g *MockGenerator) Push(uuid string) {
	g.list = append(g.list, uuid)
}

// ConstGenerator is a mocked uuid generator, which always generates a
// pre-defined uuid
type ConstGenerator struct {
	uid string
}

// NewConstGenerator creates a new ConstGenerator instance
func NewConstGenerator(uid string) *ConstGenerator {
	return &ConstGenerator{uid: uid}
}

// NewString implements Generator.NewString
func (g *ConstGenerator) NewString() string {
	return g.uid
}

// SequenceGenerator generates "prefix-1", "prefix-2", ... It is safe for
// concurrent use, so tests can assert on ids minted from several goroutines.
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator creates a new SequenceGenerator instance
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewString implements Generator.NewString
func (g *SequenceGenerator) NewString() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
