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
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

const (
	streamPingInterval = 30 * time.Second
	streamReadDeadline = 60 * time.Second
	// streamBufferSize bounds pending pushes per client; a slow client
	// drops intermediate updates rather than stalling the simulator.
	streamBufferSize = 64
)

// StreamMessage is one WebSocket frame pushed to a streaming client.
type StreamMessage struct {
	Type      string    `json:"type"` // "data", "error", "complete", "ping"
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// handleOperationStream pushes every state change of one operation until it
// reaches a terminal status.
func (s *Server) handleOperationStream(w http.ResponseWriter, r *http.Request) {
	operationID := chi.URLParam(r, "id")

	if _, ok := s.sim.GetOperation(operationID); !ok {
		s.writeError(w, http.StatusNotFound, "Operation not found")
		return
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")

		return
	}
	defer conn.Close()

	s.log.Info().
		Str("remote_addr", r.RemoteAddr).
		Str("operation_id", operationID).
		Msg("Operation stream established")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.watchClient(ctx, conn, cancel)

	updates := make(chan *models.Operation, streamBufferSize)

	handle := s.sim.OnOperationUpdate(operationID, func(op *models.Operation) {
		select {
		case updates <- op:
		default:
			s.log.Warn().
				Str("operation_id", operationID).
				Msg("Stream buffer full, dropping operation update")
		}
	})
	defer s.sim.OffOperationUpdate(operationID, handle)

	// Snapshot after subscribing so a state change in between cannot be lost.
	current, ok := s.sim.GetOperation(operationID)
	if !ok {
		_ = sendErrorMessage(conn, "Operation not found")
		return
	}

	if err := sendDataMessage(conn, current); err != nil {
		return
	}

	if isTerminalOperation(current.Status) {
		_ = sendCompletionMessage(conn)
		return
	}

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := sendPingMessage(conn); err != nil {
				s.log.Debug().
					Err(err).
					Str("remote_addr", r.RemoteAddr).
					Msg("Operation stream ping failed")

				return
			}

		case op := <-updates:
			if err := sendDataMessage(conn, op); err != nil {
				s.log.Debug().
					Err(err).
					Str("remote_addr", r.RemoteAddr).
					Msg("Operation stream write failed")

				return
			}

			if isTerminalOperation(op.Status) {
				_ = sendCompletionMessage(conn)
				return
			}
		}
	}
}

// handleMetricsStream pushes drifting metrics for one device. The listener bus
// replays the current snapshot on subscribe, so the client sees data
// immediately.
func (s *Server) handleMetricsStream(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	if _, ok := s.sim.GetDevice(deviceID); !ok {
		s.writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed to upgrade to WebSocket")

		return
	}
	defer conn.Close()

	s.log.Info().
		Str("remote_addr", r.RemoteAddr).
		Str("device_id", deviceID).
		Msg("Metrics stream established")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.watchClient(ctx, conn, cancel)

	updates := make(chan *models.DeviceMetrics, streamBufferSize)

	handle := s.sim.OnMetricsUpdate(deviceID, func(m *models.DeviceMetrics) {
		select {
		case updates <- m:
		default:
			s.log.Warn().
				Str("device_id", deviceID).
				Msg("Stream buffer full, dropping metrics update")
		}
	})
	defer s.sim.OffMetricsUpdate(deviceID, handle)

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := sendPingMessage(conn); err != nil {
				s.log.Debug().
					Err(err).
					Str("remote_addr", r.RemoteAddr).
					Msg("Metrics stream ping failed")

				return
			}

		case m := <-updates:
			if err := sendDataMessage(conn, m); err != nil {
				s.log.Debug().
					Err(err).
					Str("remote_addr", r.RemoteAddr).
					Msg("Metrics stream write failed")

				return
			}
		}
	}
}

// watchClient reads from the client so disconnects cancel the stream.
func (s *Server) watchClient(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := conn.SetReadDeadline(time.Now().Add(streamReadDeadline)); err != nil {
				return
			}

			messageType, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debug().Err(err).Msg("Unexpected WebSocket close")
				}

				return
			}

			if messageType == websocket.CloseMessage {
				return
			}
		}
	}
}

func isTerminalOperation(status models.OperationStatus) bool {
	switch status {
	case models.OperationCompleted, models.OperationFailed, models.OperationCancelled:
		return true
	default:
		return false
	}
}

func sendDataMessage(conn *websocket.Conn, data any) error {
	return conn.WriteJSON(StreamMessage{
		Type:      "data",
		Data:      data,
		Timestamp: time.Now(),
	})
}

func sendErrorMessage(conn *websocket.Conn, errMsg string) error {
	return conn.WriteJSON(StreamMessage{
		Type:      "error",
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}

func sendCompletionMessage(conn *websocket.Conn) error {
	return conn.WriteJSON(StreamMessage{
		Type:      "complete",
		Timestamp: time.Now(),
	})
}

func sendPingMessage(conn *websocket.Conn) error {
	return conn.WriteJSON(StreamMessage{
		Type:      "ping",
		Timestamp: time.Now(),
	})
}
