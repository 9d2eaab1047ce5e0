/*
 * Copyright 2025 Quantum Shield Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "time"

// CommandType is the fixed vocabulary of device command verbs.
type CommandType string

const (
	CommandScan      CommandType = "scan"
	CommandUpdate    CommandType = "update"
	CommandInstall   CommandType = "install"
	CommandRemove    CommandType = "remove"
	CommandBackup    CommandType = "backup"
	CommandRestore   CommandType = "restore"
	CommandOptimize  CommandType = "optimize"
	CommandClean     CommandType = "clean"
	CommandDiagnose  CommandType = "diagnose"
	CommandConfigure CommandType = "configure"
)

// CommandPriority orders commands for presentation; execution is strictly sequential.
type CommandPriority string

const (
	PriorityLow      CommandPriority = "low"
	PriorityMedium   CommandPriority = "medium"
	PriorityHigh     CommandPriority = "high"
	PriorityCritical CommandPriority = "critical"
)

// CommandStatus is the lifecycle state of a single command.
type CommandStatus string

const (
	CommandPending    CommandStatus = "pending"
	CommandInProgress CommandStatus = "in-progress"
	CommandCompleted  CommandStatus = "completed"
	CommandFailed     CommandStatus = "failed"
)

// OperationStatus is the lifecycle state of an operation.
// completed, failed and cancelled are terminal.
type OperationStatus string

const (
	OperationPending    OperationStatus = "pending"
	OperationInProgress OperationStatus = "in-progress"
	OperationCompleted  OperationStatus = "completed"
	OperationFailed     OperationStatus = "failed"
	OperationCancelled  OperationStatus = "cancelled"
)

// Command is one atomic step within an operation. Commands are owned by their
// parent operation and are never shared across operations.
type Command struct {
	ID         string            `json:"id"`
	Type       CommandType       `json:"type"`
	Target     string            `json:"target"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Priority   CommandPriority   `json:"priority"`
	Status     CommandStatus     `json:"status"`
	Progress   float64           `json:"progress,omitempty"`
	Result     any               `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartTime  *time.Time        `json:"start_time,omitempty"`
	EndTime    *time.Time        `json:"end_time,omitempty"`
}

// Operation is a multi-step unit of simulated work against one device.
// Commands execute strictly in order, never in parallel. Progress is the floor
// of the mean effective command progress, where a completed command counts 100.
type Operation struct {
	ID        string          `json:"id"`
	DeviceID  string          `json:"device_id"`
	Commands  []*Command      `json:"commands"`
	Status    OperationStatus `json:"status"`
	Progress  int             `json:"progress"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
}
