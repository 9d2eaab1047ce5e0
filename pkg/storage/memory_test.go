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

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

func TestSeededServiceCatalog(t *testing.T) {
	s := NewMemStorage()

	services := s.GetSecurityServices()
	require.Len(t, services, 4)

	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
		assert.True(t, svc.Active)
	}

	assert.ElementsMatch(t, []string{
		"Basic System Scan",
		"Advanced Threat Detection",
		"Quantum Encryption Shield",
		"Secure Network Analysis",
	}, names)

	svc, ok := s.GetSecurityService(1)
	require.True(t, ok)
	assert.NotEmpty(t, svc.Price)

	_, ok = s.GetSecurityService(99)
	assert.False(t, ok)
}

func TestCreateUserDefaults(t *testing.T) {
	s := NewMemStorage()

	user := s.CreateUser(&models.InsertUser{
		Username: "neo",
		Password: "follow-the-white-rabbit",
	})

	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "free", user.Subscription)
	assert.False(t, user.CreatedAt.IsZero())

	admin := s.CreateUser(&models.InsertUser{
		Username:     "trinity",
		Password:     "secret",
		Role:         "admin",
		Subscription: "premium",
	})

	assert.Equal(t, 2, admin.ID)
	assert.Equal(t, "admin", admin.Role)
	assert.Equal(t, "premium", admin.Subscription)
}

func TestGetUserByUsername(t *testing.T) {
	s := NewMemStorage()

	created := s.CreateUser(&models.InsertUser{Username: "neo", Password: "pw"})

	byName, ok := s.GetUserByUsername("neo")
	require.True(t, ok)
	assert.Equal(t, created.ID, byName.ID)

	byID, ok := s.GetUser(created.ID)
	require.True(t, ok)
	assert.Equal(t, "neo", byID.Username)

	_, ok = s.GetUserByUsername("smith")
	assert.False(t, ok)
}

func TestScanLifecycle(t *testing.T) {
	s := NewMemStorage()

	scan := s.CreateSecurityScan(&models.InsertSecurityScan{UserID: 7, ScanType: "quick"})

	assert.Equal(t, "pending", scan.Status)
	assert.False(t, scan.StartedAt.IsZero())
	assert.Nil(t, scan.CompletedAt)

	updated, ok := s.UpdateSecurityScan(scan.ID, ScanUpdate{
		Status:      "completed",
		Result:      "No threats found",
		CompletedAt: true,
	})
	require.True(t, ok)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "No threats found", updated.Result)
	require.NotNil(t, updated.CompletedAt)

	_, ok = s.UpdateSecurityScan(999, ScanUpdate{Status: "completed"})
	assert.False(t, ok)
}

func TestScanUserFilter(t *testing.T) {
	s := NewMemStorage()

	s.CreateSecurityScan(&models.InsertSecurityScan{UserID: 1, ScanType: "quick"})
	s.CreateSecurityScan(&models.InsertSecurityScan{UserID: 1, ScanType: "deep"})
	s.CreateSecurityScan(&models.InsertSecurityScan{UserID: 2, ScanType: "quick"})

	assert.Len(t, s.GetSecurityScans(0), 3)
	assert.Len(t, s.GetSecurityScans(1), 2)
	assert.Len(t, s.GetSecurityScans(2), 1)
	assert.Empty(t, s.GetSecurityScans(3))
}

func TestAlertResolution(t *testing.T) {
	s := NewMemStorage()

	alert := s.CreateSecurityAlert(&models.InsertSecurityAlert{
		UserID:  1,
		Level:   "critical",
		Message: "Intrusion attempt detected",
		Source:  "firewall",
	})

	assert.False(t, alert.Resolved)
	assert.False(t, alert.Timestamp.IsZero())

	resolved, ok := s.ResolveSecurityAlert(alert.ID)
	require.True(t, ok)
	assert.True(t, resolved.Resolved)

	fetched, ok := s.GetSecurityAlert(alert.ID)
	require.True(t, ok)
	assert.True(t, fetched.Resolved)

	_, ok = s.ResolveSecurityAlert(999)
	assert.False(t, ok)
}

func TestReports(t *testing.T) {
	s := NewMemStorage()

	report := s.CreateSecurityReport(&models.InsertSecurityReport{
		UserID:      3,
		Title:       "Weekly summary",
		Summary:     "All clear",
		ThreatLevel: "low",
	})

	fetched, ok := s.GetSecurityReport(report.ID)
	require.True(t, ok)
	assert.Equal(t, "Weekly summary", fetched.Title)

	assert.Len(t, s.GetSecurityReports(3), 1)
	assert.Empty(t, s.GetSecurityReports(4))
}

func TestGettersReturnCopies(t *testing.T) {
	s := NewMemStorage()

	svc, ok := s.GetSecurityService(1)
	require.True(t, ok)

	svc.Name = "mutated"

	again, ok := s.GetSecurityService(1)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", again.Name)
}
