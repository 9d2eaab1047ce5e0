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
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumshield/quantum-terminal/pkg/assistant"
	"github.com/quantumshield/quantum-terminal/pkg/devicesim"
	"github.com/quantumshield/quantum-terminal/pkg/logger"
	"github.com/quantumshield/quantum-terminal/pkg/models"
	"github.com/quantumshield/quantum-terminal/pkg/storage"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	sim := devicesim.NewService(
		devicesim.WithLogger(logger.NewTestLogger()),
		devicesim.WithRandSource(rand.NewSource(7)),
	)
	t.Cleanup(sim.Close)

	server := NewServer(
		logger.NewTestLogger(),
		storage.NewMemStorage(),
		sim,
		assistant.NewRouter(logger.NewTestLogger()),
		WithScanDuration(20*time.Millisecond),
	)

	return server.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "neo",
		"password": "rabbit",
		"email":    "neo@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user map[string]any
	decodeBody(t, rec, &user)
	assert.Equal(t, "neo", user["username"])
	assert.NotContains(t, user, "password")
	assert.Equal(t, "user", user["role"])

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "neo",
		"password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "neo",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "neo",
		"password": "rabbit",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "neo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var services []models.SecurityService
	decodeBody(t, rec, &services)
	assert.Len(t, services, 4)

	rec = doJSON(t, h, http.MethodGet, "/api/services/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/services/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/services/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/scans", map[string]any{
		"user_id":   1,
		"scan_type": "quick",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var scan models.SecurityScan
	decodeBody(t, rec, &scan)
	assert.Equal(t, "pending", scan.Status)

	// The fake scan lands a terminal outcome after the configured duration.
	require.Eventually(t, func() bool {
		rec := doJSON(t, h, http.MethodGet, "/api/scans/1", nil)
		if rec.Code != http.StatusOK {
			return false
		}

		var got models.SecurityScan
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			return false
		}

		return got.CompletedAt != nil && got.Result != ""
	}, 2*time.Second, 10*time.Millisecond)

	rec = doJSON(t, h, http.MethodPost, "/api/scans", map[string]any{"user_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/scans?userId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/scans?userId=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var scans []models.SecurityScan
	decodeBody(t, rec, &scans)
	assert.Len(t, scans, 1)
}

func TestAlertEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/alerts", map[string]any{
		"user_id": 1,
		"level":   "critical",
		"message": "Intrusion attempt",
		"source":  "firewall",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/alerts", map[string]any{"user_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/api/alerts/1/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var alert models.SecurityAlert
	decodeBody(t, rec, &alert)
	assert.True(t, alert.Resolved)

	rec = doJSON(t, h, http.MethodPatch, "/api/alerts/99/resolve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/reports", map[string]any{
		"user_id":      2,
		"title":        "Weekly summary",
		"summary":      "All clear",
		"threat_level": "low",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/reports/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/reports", map[string]any{"user_id": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSystemStatus(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/system/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var flags []models.SystemStatusFlag
	decodeBody(t, rec, &flags)
	require.Len(t, flags, 5)

	for _, f := range flags {
		assert.Equal(t, "ACTIVE", f.Status)
	}
}

func TestAIEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/ai/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status assistant.Status
	decodeBody(t, rec, &status)
	assert.False(t, status.Available)

	rec = doJSON(t, h, http.MethodPost, "/api/ai/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/ai/chat", map[string]string{"message": "run a scan"})
	require.Equal(t, http.StatusOK, rec.Code)

	var chat map[string]string
	decodeBody(t, rec, &chat)
	assert.Contains(t, chat["response"], "security scan")
}

func TestDeviceLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/devices", map[string]any{"class": "mobile"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/devices", map[string]any{
		"name":  "Test Phone",
		"class": "mobile",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var device models.Device
	decodeBody(t, rec, &device)
	assert.NotEmpty(t, device.ID)
	assert.Equal(t, models.DeviceStatusConnected, device.Status)
	assert.False(t, device.LastSeen.IsZero())

	rec = doJSON(t, h, http.MethodGet, "/api/devices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var devices []models.Device
	decodeBody(t, rec, &devices)
	assert.Len(t, devices, 1)

	rec = doJSON(t, h, http.MethodGet, "/api/devices/"+device.ID+"/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics models.DeviceMetrics
	decodeBody(t, rec, &metrics)
	assert.Equal(t, 6, metrics.CPU.Cores)

	rec = doJSON(t, h, http.MethodGet, "/api/devices/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/devices/"+device.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/devices/"+device.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/devices", map[string]any{
		"id":    "dev-1",
		"name":  "Test Phone",
		"class": "mobile",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/devices/missing/operations", map[string]any{
		"type":   "scan",
		"target": "security",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/devices/dev-1/operations", map[string]any{
		"type":   "teleport",
		"target": "security",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/devices/dev-1/operations", map[string]any{
		"type":   "scan",
		"target": "security",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var op models.Operation
	decodeBody(t, rec, &op)
	assert.NotEmpty(t, op.ID)
	assert.Equal(t, models.OperationPending, op.Status)

	rec = doJSON(t, h, http.MethodGet, "/api/operations/"+op.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/devices/dev-1/operations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ops []models.Operation
	decodeBody(t, rec, &ops)
	assert.Len(t, ops, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/operations/"+op.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cancelled models.Operation
	decodeBody(t, rec, &cancelled)
	assert.Equal(t, models.OperationCancelled, cancelled.Status)

	rec = doJSON(t, h, http.MethodPost, "/api/operations/op-missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationStreamUnknownOperation(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/operations/op-missing/stream", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsStreamUnknownDevice(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/devices/missing/metrics/stream", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
