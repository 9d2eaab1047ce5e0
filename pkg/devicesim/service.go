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

// Package devicesim implements the simulated device-operation engine: a registry
// of fake connected devices, synthetic telemetry that drifts over time, and
// asynchronous multi-command operations that progress on simulated timers.
//
// A Service is constructed explicitly and owned by the composition root; there
// is no package-level instance. All state is guarded by a single mutex because
// timers fire from independent goroutines.
package devicesim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/quantumshield/quantum-terminal/pkg/logger"
	"github.com/quantumshield/quantum-terminal/pkg/models"
)

// Service is the simulated device-operation engine.
type Service struct {
	mu         sync.Mutex
	devices    map[string]*models.Device
	metrics    map[string]*models.DeviceMetrics
	operations map[string]*models.Operation
	driftStop  map[string]chan struct{}

	opListeners      map[string][]listenerEntry[*models.Operation]
	metricsListeners map[string][]listenerEntry[*models.DeviceMetrics]
	nextListenerID   uint64

	rng       *lockedRand
	log       logger.Logger
	timeScale float64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger used by the engine.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithRandSource seeds the engine with a deterministic random source for
// jitter, durations and result values.
func WithRandSource(src rand.Source) Option {
	return func(s *Service) { s.rng = newLockedRand(src) }
}

// WithTimeScale compresses every simulated delay by the given factor without
// changing the scripted timeline shape. Values in (0,1) speed the simulation
// up; tests run with a small scale so full operations finish in milliseconds.
func WithTimeScale(scale float64) Option {
	return func(s *Service) {
		if scale > 0 {
			s.timeScale = scale
		}
	}
}

// NewService creates an engine with no registered devices.
func NewService(opts ...Option) *Service {
	s := &Service{
		devices:          make(map[string]*models.Device),
		metrics:          make(map[string]*models.DeviceMetrics),
		operations:       make(map[string]*models.Operation),
		driftStop:        make(map[string]chan struct{}),
		opListeners:      make(map[string][]listenerEntry[*models.Operation]),
		metricsListeners: make(map[string][]listenerEntry[*models.DeviceMetrics]),
		rng:              newLockedRand(rand.NewSource(time.Now().UnixNano())),
		log:              logger.NewTestLogger(),
		timeScale:        1.0,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RegisterDevice inserts or overwrites a device keyed by its id, seeds its
// synthetic metrics and starts the telemetry drift loop. Registering an id
// twice replaces the previous entry (last write wins) and restarts its drift.
func (s *Service) RegisterDevice(device *models.Device) {
	if device == nil || device.ID == "" {
		return
	}

	input := cloneDevice(device)

	s.mu.Lock()

	if stop, ok := s.driftStop[input.ID]; ok {
		close(stop)
	}

	s.devices[input.ID] = input
	s.metrics[input.ID] = s.initialMetrics(input)

	stop := make(chan struct{})
	s.driftStop[input.ID] = stop
	s.mu.Unlock()

	go s.runDriftLoop(input.ID, stop)

	s.log.Info().
		Str("device_id", input.ID).
		Str("device_name", input.Name).
		Str("class", string(input.Class)).
		Msg("Device registered")
}

// UnregisterDevice removes a device and its metrics, stops its drift loop and
// cancels any of its operations still pending or in progress.
func (s *Service) UnregisterDevice(deviceID string) {
	s.mu.Lock()

	if stop, ok := s.driftStop[deviceID]; ok {
		close(stop)
		delete(s.driftStop, deviceID)
	}

	delete(s.devices, deviceID)
	delete(s.metrics, deviceID)

	var toCancel []string

	for id, op := range s.operations {
		if op.DeviceID == deviceID && !isTerminal(op.Status) {
			toCancel = append(toCancel, id)
		}
	}
	s.mu.Unlock()

	for _, opID := range toCancel {
		s.CancelOperation(opID)
	}

	s.log.Info().Str("device_id", deviceID).Msg("Device unregistered")
}

// ConnectedDevices returns all currently registered devices in arbitrary order.
func (s *Service) ConnectedDevices() []*models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, cloneDevice(d))
	}

	return out
}

// GetDevice returns the device with the given id, if registered.
func (s *Service) GetDevice(deviceID string) (*models.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[deviceID]
	if !ok {
		return nil, false
	}

	return cloneDevice(d), true
}

// GetDeviceMetrics returns the current telemetry snapshot for a device.
func (s *Service) GetDeviceMetrics(deviceID string) (*models.DeviceMetrics, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.metrics[deviceID]
	if !ok {
		return nil, false
	}

	return cloneMetrics(m), true
}

// GetOperation returns the operation with the given id.
func (s *Service) GetOperation(operationID string) (*models.Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, ok := s.operations[operationID]
	if !ok {
		return nil, false
	}

	return cloneOperation(op), true
}

// GetDeviceOperations returns every operation ever issued against a device.
// History is never purged.
func (s *Service) GetDeviceOperations(deviceID string) []*models.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Operation

	for _, op := range s.operations {
		if op.DeviceID == deviceID {
			out = append(out, cloneOperation(op))
		}
	}

	return out
}

// Close stops every drift loop. In-flight operation timers drain on their own
// once their status guards observe terminal state.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, stop := range s.driftStop {
		close(stop)
		delete(s.driftStop, id)
	}
}

// scale converts a scripted duration into wall-clock time.
func (s *Service) scale(d time.Duration) time.Duration {
	if s.timeScale == 1.0 {
		return d
	}

	scaled := time.Duration(float64(d) * s.timeScale)
	if scaled < time.Millisecond {
		scaled = time.Millisecond
	}

	return scaled
}

func isTerminal(status models.OperationStatus) bool {
	switch status {
	case models.OperationCompleted, models.OperationFailed, models.OperationCancelled:
		return true
	default:
		return false
	}
}

// lockedRand wraps math/rand for use from timer goroutines.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(src rand.Source) *lockedRand {
	return &lockedRand{rng: rand.New(src)} //nolint:gosec // simulation jitter, not crypto
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rng.Float64()
}

// Intn returns a value in [0,n).
func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rng.Intn(n)
}

func cloneDevice(d *models.Device) *models.Device {
	out := *d
	out.Permissions = append([]string(nil), d.Permissions...)
	out.Features = append([]string(nil), d.Features...)

	return &out
}

func cloneMetrics(m *models.DeviceMetrics) *models.DeviceMetrics {
	out := *m

	if m.Battery != nil {
		battery := *m.Battery
		if m.Battery.TimeRemaining != nil {
			remaining := *m.Battery.TimeRemaining
			battery.TimeRemaining = &remaining
		}

		out.Battery = &battery
	}

	return &out
}

func cloneOperation(op *models.Operation) *models.Operation {
	out := *op
	out.Commands = make([]*models.Command, len(op.Commands))

	for i, cmd := range op.Commands {
		c := *cmd

		if cmd.Parameters != nil {
			c.Parameters = make(map[string]string, len(cmd.Parameters))
			for k, v := range cmd.Parameters {
				c.Parameters[k] = v
			}
		}

		if cmd.StartTime != nil {
			t := *cmd.StartTime
			c.StartTime = &t
		}

		if cmd.EndTime != nil {
			t := *cmd.EndTime
			c.EndTime = &t
		}

		out.Commands[i] = &c
	}

	if op.EndTime != nil {
		t := *op.EndTime
		out.EndTime = &t
	}

	return &out
}
