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

package devicesim

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

const (
	// dispatchDelay simulates the latency between accepting an operation and
	// starting its first command, and the gap between consecutive commands.
	dispatchDelay = 500 * time.Millisecond

	// progressTickCap is the longest interval between progress updates.
	progressTickCap = 500 * time.Millisecond

	progressCeiling = 99

	cancelledError = "Operation cancelled"
)

// ExecuteOperation creates an operation against a connected device and returns
// its id immediately; execution begins asynchronously after a short dispatch
// delay. The command list per operation type is fixed:
//
//	scan     -> scan(target, high)
//	update   -> scan("system", medium), update(target, high)
//	optimize -> scan("system", medium), optimize(target, medium)
//	diagnose -> diagnose(target, high)
func (s *Service) ExecuteOperation(
	deviceID, operationType, target string, parameters map[string]string) (string, error) {
	s.mu.Lock()

	device, ok := s.devices[deviceID]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	if device.Status != models.DeviceStatusConnected {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrDeviceNotConnected, deviceID)
	}

	commands, err := buildCommands(operationType, target, parameters)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	op := &models.Operation{
		ID:        "op-" + uuid.NewString(),
		DeviceID:  deviceID,
		Commands:  commands,
		Status:    models.OperationPending,
		Progress:  0,
		StartTime: time.Now(),
	}

	s.operations[op.ID] = op
	s.mu.Unlock()

	s.log.Info().
		Str("operation_id", op.ID).
		Str("device_id", deviceID).
		Str("type", operationType).
		Str("target", target).
		Int("commands", len(commands)).
		Msg("Operation accepted")

	time.AfterFunc(s.scale(dispatchDelay), func() {
		s.startOperation(op.ID)
	})

	return op.ID, nil
}

func buildCommands(operationType, target string, parameters map[string]string) ([]*models.Command, error) {
	newCommand := func(cmdType models.CommandType, cmdTarget string, priority models.CommandPriority,
		params map[string]string) *models.Command {
		return &models.Command{
			ID:         "cmd-" + uuid.NewString(),
			Type:       cmdType,
			Target:     cmdTarget,
			Parameters: params,
			Priority:   priority,
			Status:     models.CommandPending,
		}
	}

	switch operationType {
	case "scan":
		return []*models.Command{
			newCommand(models.CommandScan, target, models.PriorityHigh, parameters),
		}, nil
	case "update":
		return []*models.Command{
			newCommand(models.CommandScan, "system", models.PriorityMedium, nil),
			newCommand(models.CommandUpdate, target, models.PriorityHigh, parameters),
		}, nil
	case "optimize":
		return []*models.Command{
			newCommand(models.CommandScan, "system", models.PriorityMedium, nil),
			newCommand(models.CommandOptimize, target, models.PriorityMedium, parameters),
		}, nil
	case "diagnose":
		return []*models.Command{
			newCommand(models.CommandDiagnose, target, models.PriorityHigh, parameters),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operationType)
	}
}

// startOperation transitions pending -> in-progress and begins the command chain.
func (s *Service) startOperation(operationID string) {
	s.mu.Lock()

	op, ok := s.operations[operationID]
	if !ok || op.Status != models.OperationPending {
		s.mu.Unlock()
		return
	}

	op.Status = models.OperationInProgress
	op.Progress = 0

	snapshot := cloneOperation(op)
	listeners := s.opListenersFor(operationID)
	s.mu.Unlock()

	s.notifyOperation(operationID, listeners, snapshot)
	s.executeNextCommand(operationID)
}

// executeNextCommand finds the first pending command and runs it, or finalizes
// the operation when none remain. Every state mutation re-checks the operation
// status so cancelled operations go quiet without tearing down timers.
func (s *Service) executeNextCommand(operationID string) {
	s.mu.Lock()

	op, ok := s.operations[operationID]
	if !ok || op.Status != models.OperationInProgress {
		s.mu.Unlock()
		return
	}

	var next *models.Command

	for _, cmd := range op.Commands {
		if cmd.Status == models.CommandPending {
			next = cmd
			break
		}
	}

	if next == nil {
		now := time.Now()
		op.Status = models.OperationCompleted
		op.Progress = 100
		op.EndTime = &now

		snapshot := cloneOperation(op)
		listeners := s.opListenersFor(operationID)
		s.mu.Unlock()

		s.log.Info().
			Str("operation_id", operationID).
			Str("device_id", snapshot.DeviceID).
			Msg("Operation completed")

		s.notifyOperation(operationID, listeners, snapshot)

		return
	}

	now := time.Now()
	next.Status = models.CommandInProgress
	next.StartTime = &now

	duration := s.commandDuration(next)

	snapshot := cloneOperation(op)
	listeners := s.opListenersFor(operationID)
	s.mu.Unlock()

	s.notifyOperation(operationID, listeners, snapshot)

	go s.runCommand(operationID, next.ID, duration)
}

// commandDuration picks the scripted execution time for a command.
func (s *Service) commandDuration(cmd *models.Command) time.Duration {
	msec := func(base, jitter float64) time.Duration {
		return time.Duration(base+s.rng.Float64()*jitter) * time.Millisecond
	}

	switch cmd.Type {
	case models.CommandScan:
		if cmd.Target == "system" {
			return 8 * time.Second
		}

		return 5 * time.Second
	case models.CommandUpdate:
		return msec(12000, 8000)
	case models.CommandOptimize:
		return msec(10000, 5000)
	case models.CommandDiagnose:
		return msec(7000, 3000)
	default:
		return msec(5000, 5000)
	}
}

// runCommand drives one command: periodic progress ticks capped at 99, then
// completion with a synthetic result at expiry, then the next command after a
// dispatch gap. The scripted duration determines tick spacing and increments;
// only the wall-clock timers are scaled.
func (s *Service) runCommand(operationID, commandID string, duration time.Duration) {
	interval := duration / 10
	if interval > progressTickCap {
		interval = progressTickCap
	}

	increment := 100 / (float64(duration) / float64(interval))

	ticker := time.NewTicker(s.scale(interval))
	defer ticker.Stop()

	expiry := time.NewTimer(s.scale(duration))
	defer expiry.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.tickCommandProgress(operationID, commandID, increment) {
				return
			}
		case <-expiry.C:
			s.completeCommand(operationID, commandID)
			return
		}
	}
}

// tickCommandProgress advances one command's progress and recomputes the
// operation aggregate. Returns false once the operation or command left
// in-progress state, which stops the ticker.
func (s *Service) tickCommandProgress(operationID, commandID string, increment float64) bool {
	s.mu.Lock()

	op, cmd := s.lookupInProgress(operationID, commandID)
	if cmd == nil {
		s.mu.Unlock()
		return false
	}

	cmd.Progress = math.Min(progressCeiling, cmd.Progress+increment)
	recomputeProgress(op)

	snapshot := cloneOperation(op)
	listeners := s.opListenersFor(operationID)
	s.mu.Unlock()

	s.notifyOperation(operationID, listeners, snapshot)

	return true
}

// completeCommand finalizes a command at expiry and schedules the next one.
func (s *Service) completeCommand(operationID, commandID string) {
	s.mu.Lock()

	op, cmd := s.lookupInProgress(operationID, commandID)
	if cmd == nil {
		s.mu.Unlock()
		return
	}

	now := time.Now()
	cmd.Status = models.CommandCompleted
	cmd.Progress = 100
	cmd.EndTime = &now
	cmd.Result = s.generateCommandResult(cmd)
	cmdType := string(cmd.Type)

	recomputeProgress(op)

	snapshot := cloneOperation(op)
	listeners := s.opListenersFor(operationID)
	s.mu.Unlock()

	s.log.Debug().
		Str("operation_id", operationID).
		Str("command_id", commandID).
		Str("command_type", cmdType).
		Msg("Command completed")

	s.notifyOperation(operationID, listeners, snapshot)

	time.AfterFunc(s.scale(dispatchDelay), func() {
		s.executeNextCommand(operationID)
	})
}

// lookupInProgress returns the operation and command only while both are still
// in-progress. Callers must hold s.mu.
func (s *Service) lookupInProgress(operationID, commandID string) (*models.Operation, *models.Command) {
	op, ok := s.operations[operationID]
	if !ok || op.Status != models.OperationInProgress {
		return nil, nil
	}

	for _, cmd := range op.Commands {
		if cmd.ID == commandID {
			if cmd.Status != models.CommandInProgress {
				return nil, nil
			}

			return op, cmd
		}
	}

	return nil, nil
}

// recomputeProgress applies the aggregate formula: floor of the mean effective
// command progress, where completed commands count 100. Callers must hold s.mu.
func recomputeProgress(op *models.Operation) {
	if len(op.Commands) == 0 {
		return
	}

	var sum float64

	for _, cmd := range op.Commands {
		switch cmd.Status {
		case models.CommandCompleted:
			sum += 100
		case models.CommandInProgress:
			sum += cmd.Progress
		default:
		}
	}

	op.Progress = int(math.Floor(sum / float64(len(op.Commands))))
}

// CancelOperation cancels a pending or in-progress operation: its non-terminal
// commands are forced to failed with a cancellation error, listeners are
// notified once, and any still-armed timers become no-ops via the status
// guards. Cancelling a terminal operation is a no-op.
func (s *Service) CancelOperation(operationID string) {
	s.mu.Lock()

	op, ok := s.operations[operationID]
	if !ok || isTerminal(op.Status) {
		s.mu.Unlock()
		return
	}

	now := time.Now()
	op.Status = models.OperationCancelled
	op.EndTime = &now

	for _, cmd := range op.Commands {
		switch cmd.Status {
		case models.CommandInProgress:
			cmd.EndTime = &now
			cmd.Status = models.CommandFailed
			cmd.Error = cancelledError
		case models.CommandPending:
			cmd.Status = models.CommandFailed
			cmd.Error = cancelledError
		default:
		}
	}

	snapshot := cloneOperation(op)
	listeners := s.opListenersFor(operationID)
	s.mu.Unlock()

	s.log.Info().
		Str("operation_id", operationID).
		Str("device_id", snapshot.DeviceID).
		Msg("Operation cancelled")

	s.notifyOperation(operationID, listeners, snapshot)
}
