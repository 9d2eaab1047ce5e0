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
	"github.com/quantumshield/quantum-terminal/pkg/models"
)

// OperationListener receives a snapshot after every operation state change.
type OperationListener func(op *models.Operation)

// MetricsListener receives a snapshot after every telemetry drift tick.
type MetricsListener func(metrics *models.DeviceMetrics)

// ListenerHandle identifies one subscription for removal.
type ListenerHandle uint64

type listenerEntry[T any] struct {
	id uint64
	fn func(T)
}

// OnOperationUpdate subscribes to state changes of one operation. There is no
// replay on subscribe; the first delivery is the next state change.
func (s *Service) OnOperationUpdate(operationID string, fn OperationListener) ListenerHandle {
	if fn == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListenerID++
	s.opListeners[operationID] = append(s.opListeners[operationID],
		listenerEntry[*models.Operation]{id: s.nextListenerID, fn: fn})

	return ListenerHandle(s.nextListenerID)
}

// OffOperationUpdate removes a subscription; the entry list is dropped when it
// empties.
func (s *Service) OffOperationUpdate(operationID string, handle ListenerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opListeners[operationID] = removeListener(s.opListeners[operationID], uint64(handle))
	if len(s.opListeners[operationID]) == 0 {
		delete(s.opListeners, operationID)
	}
}

// OnMetricsUpdate subscribes to telemetry updates for one device. If a snapshot
// already exists it is delivered immediately.
func (s *Service) OnMetricsUpdate(deviceID string, fn MetricsListener) ListenerHandle {
	if fn == nil {
		return 0
	}

	s.mu.Lock()

	s.nextListenerID++
	handle := s.nextListenerID
	s.metricsListeners[deviceID] = append(s.metricsListeners[deviceID],
		listenerEntry[*models.DeviceMetrics]{id: handle, fn: fn})

	var snapshot *models.DeviceMetrics
	if m, ok := s.metrics[deviceID]; ok {
		snapshot = cloneMetrics(m)
	}
	s.mu.Unlock()

	if snapshot != nil {
		s.invokeMetricsListener(deviceID, fn, snapshot)
	}

	return ListenerHandle(handle)
}

// OffMetricsUpdate removes a metrics subscription.
func (s *Service) OffMetricsUpdate(deviceID string, handle ListenerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metricsListeners[deviceID] = removeListener(s.metricsListeners[deviceID], uint64(handle))
	if len(s.metricsListeners[deviceID]) == 0 {
		delete(s.metricsListeners, deviceID)
	}
}

func removeListener[T any](entries []listenerEntry[T], id uint64) []listenerEntry[T] {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}

	return entries
}

// opListenersFor snapshots the current subscriber list. Callers must hold s.mu.
func (s *Service) opListenersFor(operationID string) []listenerEntry[*models.Operation] {
	entries := s.opListeners[operationID]
	if len(entries) == 0 {
		return nil
	}

	return append([]listenerEntry[*models.Operation](nil), entries...)
}

// metricsListenersFor snapshots the current subscriber list. Callers must hold s.mu.
func (s *Service) metricsListenersFor(deviceID string) []listenerEntry[*models.DeviceMetrics] {
	entries := s.metricsListeners[deviceID]
	if len(entries) == 0 {
		return nil
	}

	return append([]listenerEntry[*models.DeviceMetrics](nil), entries...)
}

// notifyOperation delivers a snapshot to each subscriber. A panicking
// subscriber is recovered and logged so it cannot break delivery to the rest.
func (s *Service) notifyOperation(operationID string, entries []listenerEntry[*models.Operation], op *models.Operation) {
	for _, e := range entries {
		s.invokeOperationListener(operationID, e.fn, op)
	}
}

func (s *Service) invokeOperationListener(operationID string, fn OperationListener, op *models.Operation) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("operation_id", operationID).
				Interface("panic", r).
				Msg("Operation listener panicked")
		}
	}()

	fn(op)
}

func (s *Service) notifyMetrics(deviceID string, entries []listenerEntry[*models.DeviceMetrics], m *models.DeviceMetrics) {
	for _, e := range entries {
		s.invokeMetricsListener(deviceID, e.fn, m)
	}
}

func (s *Service) invokeMetricsListener(deviceID string, fn MetricsListener, m *models.DeviceMetrics) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("device_id", deviceID).
				Interface("panic", r).
				Msg("Metrics listener panicked")
		}
	}()

	fn(m)
}
