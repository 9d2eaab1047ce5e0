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

// Package api provides the REST and WebSocket surface of the dashboard:
// accounts, the security-service catalog, scans, alerts, reports, the chat
// assistant, and the simulated device fleet with its operation engine.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quantumshield/quantum-terminal/pkg/assistant"
	"github.com/quantumshield/quantum-terminal/pkg/devicesim"
	"github.com/quantumshield/quantum-terminal/pkg/logger"
	"github.com/quantumshield/quantum-terminal/pkg/storage"
)

const defaultScanDuration = 5 * time.Second

// Server wires the HTTP handlers to the backing services.
type Server struct {
	log       logger.Logger
	store     storage.Storage
	sim       *devicesim.Service
	assistant *assistant.Router

	// scanDuration is how long a requested security scan pretends to run
	// before its outcome lands.
	scanDuration time.Duration
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithScanDuration overrides the simulated scan runtime.
func WithScanDuration(d time.Duration) ServerOption {
	return func(s *Server) {
		s.scanDuration = d
	}
}

// NewServer builds the API server over the given services.
func NewServer(
	log logger.Logger,
	store storage.Storage,
	sim *devicesim.Service,
	chat *assistant.Router,
	opts ...ServerOption,
) *Server {
	s := &Server{
		log:          log,
		store:        store,
		sim:          sim,
		assistant:    chat,
		scanDuration: defaultScanDuration,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", s.handleListServices)
			r.Get("/{id}", s.handleGetService)
		})

		r.Route("/scans", func(r chi.Router) {
			r.Get("/", s.handleListScans)
			r.Post("/", s.handleCreateScan)
			r.Get("/{id}", s.handleGetScan)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.handleListAlerts)
			r.Post("/", s.handleCreateAlert)
			r.Get("/{id}", s.handleGetAlert)
			r.Patch("/{id}/resolve", s.handleResolveAlert)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Post("/", s.handleCreateReport)
			r.Get("/{id}", s.handleGetReport)
		})

		r.Get("/system/status", s.handleSystemStatus)

		r.Route("/ai", func(r chi.Router) {
			r.Get("/status", s.handleAIStatus)
			r.Post("/chat", s.handleAIChat)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleRegisterDevice)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Delete("/", s.handleUnregisterDevice)
				r.Get("/metrics", s.handleDeviceMetrics)
				r.Get("/metrics/stream", s.handleMetricsStream)
				r.Get("/operations", s.handleDeviceOperations)
				r.Post("/operations", s.handleStartOperation)
			})
		})

		r.Route("/operations/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetOperation)
			r.Post("/cancel", s.handleCancelOperation)
			r.Get("/stream", s.handleOperationStream)
		})
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"error": msg})
}

func decodeJSONStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected extra data after JSON body")
		}

		return err
	}

	return nil
}
