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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

func TestOnMetricsUpdateReplaysSnapshot(t *testing.T) {
	s := newRealtimeService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	var got *models.DeviceMetrics

	handle := s.OnMetricsUpdate("dev-1", func(m *models.DeviceMetrics) {
		got = m
	})

	require.NotZero(t, handle)
	require.NotNil(t, got, "subscribing to a known device should replay the current snapshot")
	assert.Equal(t, 6, got.CPU.Cores)
}

func TestOnMetricsUpdateUnknownDeviceNoReplay(t *testing.T) {
	s := newRealtimeService(t)

	called := false
	s.OnMetricsUpdate("missing", func(*models.DeviceMetrics) { called = true })

	assert.False(t, called)
}

func TestOffMetricsUpdate(t *testing.T) {
	s := newRealtimeService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	var (
		mu    sync.Mutex
		calls int
	)

	handle := s.OnMetricsUpdate("dev-1", func(*models.DeviceMetrics) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	mu.Lock()
	afterReplay := calls
	mu.Unlock()

	s.OffMetricsUpdate("dev-1", handle)
	s.driftTick("dev-1")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, afterReplay, calls, "removed listener must not fire on drift")
}

func TestOnOperationUpdateNoReplay(t *testing.T) {
	s := newRealtimeService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	opID, err := s.ExecuteOperation("dev-1", "scan", "security", nil)
	require.NoError(t, err)

	called := false
	s.OnOperationUpdate(opID, func(*models.Operation) { called = true })

	assert.False(t, called, "operation subscriptions deliver state changes only")
}

func TestOperationListenerReceivesCancel(t *testing.T) {
	s := newRealtimeService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	opID, err := s.ExecuteOperation("dev-1", "scan", "security", nil)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen []models.OperationStatus
	)

	s.OnOperationUpdate(opID, func(op *models.Operation) {
		mu.Lock()
		seen = append(seen, op.Status)
		mu.Unlock()
	})

	s.CancelOperation(opID)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, models.OperationCancelled, seen[0])
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	s := newRealtimeService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	var (
		mu     sync.Mutex
		second int
	)

	s.OnMetricsUpdate("dev-1", func(*models.DeviceMetrics) {
		panic("listener exploded")
	})
	s.OnMetricsUpdate("dev-1", func(*models.DeviceMetrics) {
		mu.Lock()
		second++
		mu.Unlock()
	})

	require.True(t, s.driftTick("dev-1"))

	mu.Lock()
	defer mu.Unlock()
	// One replay on subscribe plus one drift delivery.
	assert.Equal(t, 2, second)
}

func TestNilListenerIgnored(t *testing.T) {
	s := newRealtimeService(t)

	assert.Zero(t, s.OnOperationUpdate("op-1", nil))
	assert.Zero(t, s.OnMetricsUpdate("dev-1", nil))
}

func TestRemoveListener(t *testing.T) {
	entries := []listenerEntry[int]{
		{id: 1, fn: func(int) {}},
		{id: 2, fn: func(int) {}},
		{id: 3, fn: func(int) {}},
	}

	trimmed := removeListener(entries, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, uint64(1), trimmed[0].id)
	assert.Equal(t, uint64(3), trimmed[1].id)

	// Unknown ids leave the list untouched.
	assert.Len(t, removeListener(trimmed, 99), 2)
}
