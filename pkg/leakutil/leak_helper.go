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

// Package leakutil provides utilities for goroutine leak detection in
// tests.
package leakutil

import (
	"testing"

	"go.uber.org/goleak"
)

// SetUpLeakTest initializes the leak test, called from TestMain.
func SetUpLeakTest(m *testing.M, opts ...goleak.Option) {
	goleak.VerifyTestMain(m, opts...)
}
