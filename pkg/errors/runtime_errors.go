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
	"github.com/pingcap/errors"
)

// all runtime errors
var (
	// collection related errors
	ErrItemNotFound = errors.Normalize(
		"item not found, id: %s",
		errors.RFCCodeText("LION:ErrItemNotFound"),
	)
	ErrItemAlreadyExists = errors.Normalize(
		"item already exists, id: %s",
		errors.RFCCodeText("LION:ErrItemAlreadyExists"),
	)
	ErrInvalidItemType = errors.Normalize(
		"item type %s is not in the allowed type set",
		errors.RFCCodeText("LION:ErrInvalidItemType"),
	)
	ErrIndexOutOfRange = errors.Normalize(
		"index %d out of range, length %d",
		errors.RFCCodeText("LION:ErrIndexOutOfRange"),
	)
	ErrProgressionEmpty = errors.Normalize(
		"progression %s is empty",
		errors.RFCCodeText("LION:ErrProgressionEmpty"),
	)

	// graph related errors
	ErrNodeNotFound = errors.Normalize(
		"node not found, id: %s",
		errors.RFCCodeText("LION:ErrNodeNotFound"),
	)
	ErrEdgeNotFound = errors.Normalize(
		"edge not found, id: %s",
		errors.RFCCodeText("LION:ErrEdgeNotFound"),
	)
	ErrEdgeEndpointMissing = errors.Normalize(
		"edge endpoint %s is not a member of the graph",
		errors.RFCCodeText("LION:ErrEdgeEndpointMissing"),
	)
	ErrCyclicGraph = errors.Normalize(
		"graph contains at least one cycle and cannot be executed",
		errors.RFCCodeText("LION:ErrCyclicGraph"),
	)

	// mail related errors
	ErrSourceNotFound = errors.Normalize(
		"mail source not registered, id: %s",
		errors.RFCCodeText("LION:ErrSourceNotFound"),
	)
	ErrUnknownMailCategory = errors.Normalize(
		"unknown mail category: %s",
		errors.RFCCodeText("LION:ErrUnknownMailCategory"),
	)
	ErrMailboxClosed = errors.Normalize(
		"mailbox is closed, id: %s",
		errors.RFCCodeText("LION:ErrMailboxClosed"),
	)
	ErrManagerStopped = errors.Normalize(
		"mail manager is stopped",
		errors.RFCCodeText("LION:ErrManagerStopped"),
	)

	// executor related errors
	ErrTraversalFailed = errors.Normalize(
		"traversal failed interpreting %s mail at node %s",
		errors.RFCCodeText("LION:ErrTraversalFailed"),
	)
	ErrConditionTimeout = errors.Normalize(
		"edge condition check timed out, edge: %s",
		errors.RFCCodeText("LION:ErrConditionTimeout"),
	)
	ErrExecutorStopped = errors.Normalize(
		"executor is stopped, id: %s",
		errors.RFCCodeText("LION:ErrExecutorStopped"),
	)
	ErrBranchQuotaExceeded = errors.Normalize(
		"branch quota exhausted, max branches: %d",
		errors.RFCCodeText("LION:ErrBranchQuotaExceeded"),
	)

	// config related errors
	ErrDecodeConfigFile = errors.Normalize(
		"decode config file failed, file: %s",
		errors.RFCCodeText("LION:ErrDecodeConfigFile"),
	)
	ErrConfigUnknownItem = errors.Normalize(
		"unknown config item: %s",
		errors.RFCCodeText("LION:ErrConfigUnknownItem"),
	)
	ErrInvalidConfig = errors.Normalize(
		"invalid config: %s",
		errors.RFCCodeText("LION:ErrInvalidConfig"),
	)

	// work related errors
	ErrWorkQueueFull = errors.Normalize(
		"work queue is full",
		errors.RFCCodeText("LION:ErrWorkQueueFull"),
	)
	ErrWorkQueueStopped = errors.Normalize(
		"work queue is stopped",
		errors.RFCCodeText("LION:ErrWorkQueueStopped"),
	)
	ErrWorkStatusTransition = errors.Normalize(
		"illegal work status transition from %s to %s",
		errors.RFCCodeText("LION:ErrWorkStatusTransition"),
	)
)
