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

// Package errors provides error definitions for the whole runtime.
package errors

import (
	stderrors "errors"

	perrors "github.com/pingcap/errors"
)

// re-export functions of pingcap/errors so that callers need a single
// errors import.
var (
	// New and Errorf create leaf errors with stack traces.
	New    = perrors.New
	Errorf = perrors.Errorf

	// Trace, Annotate and Annotatef wrap an error with the caller's stack.
	Trace     = perrors.Trace
	Annotate  = perrors.Annotate
	Annotatef = perrors.Annotatef

	// Cause returns the underlying cause of an error.
	Cause = perrors.Cause

	// Is, As and Unwrap behave like their standard library counterparts.
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = perrors.Unwrap
)

// Error is a alias of pingcap/errors.Error, the normalized error carrying
// an RFC code.
type Error = perrors.Error
