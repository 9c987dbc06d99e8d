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

package errors

import (
	"context"

	perrors "github.com/pingcap/errors"
)

// WrapError generates a new error based on the given *errors.Error, wraps
// err as the cause. Returns nil if err is nil, which differs from the Wrap
// function in pingcap/errors.
func WrapError(rfcError *perrors.Error, err error, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return rfcError.Wrap(err).GenWithStackByArgs(args...)
}

// IsContextCanceledError checks whether an error is caused by
// context.Canceled.
func IsContextCanceledError(err error) bool {
	return Cause(err) == context.Canceled
}

// IsContextDeadlineExceededError checks whether an error is caused by
// context.DeadlineExceeded.
func IsContextDeadlineExceededError(err error) bool {
	return Cause(err) == context.DeadlineExceeded
}
