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
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quantumshield/quantum-terminal/pkg/models"
	"github.com/quantumshield/quantum-terminal/pkg/storage"
)

// systemStatusBoard is the fixed status readout shown on the dashboard.
var systemStatusBoard = []models.SystemStatusFlag{
	{Name: "System Integration", Status: "ACTIVE"},
	{Name: "Reset Workflow", Status: "ACTIVE"},
	{Name: "Development Enabler", Status: "ACTIVE"},
	{Name: "DNA Protection", Status: "ACTIVE"},
	{Name: "Simultaneous Processes", Status: "ACTIVE"},
}

func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// userIDQuery reads the optional userId filter; zero means unfiltered.
func userIDQuery(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return 0, true
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return id, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertUser
	if err := decodeJSONStrict(r, &insert); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if insert.Username == "" || insert.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if _, exists := s.store.GetUserByUsername(insert.Username); exists {
		s.writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}

	user := s.store.CreateUser(&insert)

	s.log.Info().Str("username", user.Username).Int("user_id", user.ID).Msg("User registered")
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := decodeJSONStrict(r, &creds); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if creds.Username == "" || creds.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, ok := s.store.GetUserByUsername(creds.Username)
	if !ok || user.Password != creds.Password {
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListServices(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.GetSecurityServices())
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	service, ok := s.store.GetSecurityService(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Security service not found")
		return
	}

	s.writeJSON(w, http.StatusOK, service)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDQuery(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid userId filter")
		return
	}

	s.writeJSON(w, http.StatusOK, s.store.GetSecurityScans(userID))
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid scan ID")
		return
	}

	scan, ok := s.store.GetSecurityScan(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Security scan not found")
		return
	}

	s.writeJSON(w, http.StatusOK, scan)
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertSecurityScan
	if err := decodeJSONStrict(r, &insert); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if insert.ScanType == "" {
		s.writeError(w, http.StatusBadRequest, "Scan type is required")
		return
	}

	scan := s.store.CreateSecurityScan(&insert)

	// The scan "runs" in the background and lands an outcome after the
	// configured duration.
	time.AfterFunc(s.scanDuration, func() { s.completeScan(scan.ID) })

	s.log.Info().
		Int("scan_id", scan.ID).
		Str("scan_type", scan.ScanType).
		Msg("Security scan started")
	s.writeJSON(w, http.StatusCreated, scan)
}

func (s *Server) completeScan(scanID int) {
	results := []string{"No threats found", "Possible intrusion detected", "Vulnerable software found"}
	statuses := []string{"completed", "failed", "cancelled"}

	status := "completed"
	if rand.Float64() <= 0.2 {
		status = statuses[rand.Intn(len(statuses))]
	}

	updated, ok := s.store.UpdateSecurityScan(scanID, storage.ScanUpdate{
		Status:      status,
		Result:      results[rand.Intn(len(results))],
		CompletedAt: true,
	})
	if !ok {
		s.log.Warn().Int("scan_id", scanID).Msg("Scan vanished before completion")
		return
	}

	s.log.Info().
		Int("scan_id", updated.ID).
		Str("status", updated.Status).
		Str("result", updated.Result).
		Msg("Security scan finished")
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDQuery(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid userId filter")
		return
	}

	s.writeJSON(w, http.StatusOK, s.store.GetSecurityAlerts(userID))
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	alert, ok := s.store.GetSecurityAlert(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Security alert not found")
		return
	}

	s.writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertSecurityAlert
	if err := decodeJSONStrict(r, &insert); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if insert.Level == "" || insert.Message == "" {
		s.writeError(w, http.StatusBadRequest, "Alert level and message are required")
		return
	}

	s.writeJSON(w, http.StatusCreated, s.store.CreateSecurityAlert(&insert))
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	alert, ok := s.store.ResolveSecurityAlert(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Security alert not found")
		return
	}

	s.writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDQuery(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid userId filter")
		return
	}

	s.writeJSON(w, http.StatusOK, s.store.GetSecurityReports(userID))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, ok := s.store.GetSecurityReport(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Security report not found")
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var insert models.InsertSecurityReport
	if err := decodeJSONStrict(r, &insert); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if insert.Title == "" {
		s.writeError(w, http.StatusBadRequest, "Report title is required")
		return
	}

	s.writeJSON(w, http.StatusCreated, s.store.CreateSecurityReport(&insert))
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, systemStatusBoard)
}

func (s *Server) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.assistant.Status())
}

func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message  string `json:"message"`
		Provider string `json:"provider,omitempty"`
	}

	if err := decodeJSONStrict(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	response := s.assistant.Respond(r.Context(), req.Message, req.Provider)
	s.writeJSON(w, http.StatusOK, map[string]string{"response": response})
}
