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

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quantumshield/quantum-terminal/pkg/devicesim"
	"github.com/quantumshield/quantum-terminal/pkg/models"
)

func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sim.ConnectedDevices())
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var device models.Device
	if err := decodeJSONStrict(r, &device); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if device.Name == "" {
		s.writeError(w, http.StatusBadRequest, "Device name is required")
		return
	}

	if device.ID == "" {
		device.ID = "device-" + uuid.NewString()
	}

	if device.Status == "" {
		device.Status = models.DeviceStatusConnected
	}

	if device.LastSeen.IsZero() {
		device.LastSeen = time.Now()
	}

	s.sim.RegisterDevice(&device)

	registered, ok := s.sim.GetDevice(device.ID)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	s.writeJSON(w, http.StatusCreated, registered)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, ok := s.sim.GetDevice(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	s.writeJSON(w, http.StatusOK, device)
}

func (s *Server) handleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	if _, ok := s.sim.GetDevice(deviceID); !ok {
		s.writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	s.sim.UnregisterDevice(deviceID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok := s.sim.GetDeviceMetrics(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	s.writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleDeviceOperations(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	if _, ok := s.sim.GetDevice(deviceID); !ok {
		s.writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	s.writeJSON(w, http.StatusOK, s.sim.GetDeviceOperations(deviceID))
}

func (s *Server) handleStartOperation(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	var req struct {
		Type       string            `json:"type"`
		Target     string            `json:"target"`
		Parameters map[string]string `json:"parameters,omitempty"`
	}

	if err := decodeJSONStrict(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Type == "" || req.Target == "" {
		s.writeError(w, http.StatusBadRequest, "Operation type and target are required")
		return
	}

	operationID, err := s.sim.ExecuteOperation(deviceID, req.Type, req.Target, req.Parameters)
	if err != nil {
		switch {
		case errors.Is(err, devicesim.ErrDeviceNotFound):
			s.writeError(w, http.StatusNotFound, "Device not found")
		case errors.Is(err, devicesim.ErrDeviceNotConnected):
			s.writeError(w, http.StatusConflict, "Device is not connected")
		case errors.Is(err, devicesim.ErrUnsupportedOperationType):
			s.writeError(w, http.StatusBadRequest, "Unsupported operation type")
		default:
			s.log.Error().Err(err).Str("device_id", deviceID).Msg("Failed to start operation")
			s.writeError(w, http.StatusInternalServerError, "Failed to start operation")
		}

		return
	}

	operation, ok := s.sim.GetOperation(operationID)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "Failed to start operation")
		return
	}

	s.writeJSON(w, http.StatusAccepted, operation)
}

func (s *Server) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	operation, ok := s.sim.GetOperation(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Operation not found")
		return
	}

	s.writeJSON(w, http.StatusOK, operation)
}

func (s *Server) handleCancelOperation(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "id")

	if _, ok := s.sim.GetOperation(operationID); !ok {
		s.writeError(w, http.StatusNotFound, "Operation not found")
		return
	}

	s.sim.CancelOperation(operationID)

	operation, _ := s.sim.GetOperation(operationID)
	s.writeJSON(w, http.StatusOK, operation)
}
