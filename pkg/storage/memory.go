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
	"sync"
	"time"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

// MemStorage is the map-backed Storage implementation. All entities get
// monotonically increasing integer ids.
type MemStorage struct {
	mu sync.RWMutex

	users    map[int]*models.User
	services map[int]*models.SecurityService
	scans    map[int]*models.SecurityScan
	alerts   map[int]*models.SecurityAlert
	reports  map[int]*models.SecurityReport

	nextUserID    int
	nextServiceID int
	nextScanID    int
	nextAlertID   int
	nextReportID  int
}

var _ Storage = (*MemStorage)(nil)

// NewMemStorage creates a store seeded with the default security service
// catalog.
func NewMemStorage() *MemStorage {
	s := &MemStorage{
		users:         make(map[int]*models.User),
		services:      make(map[int]*models.SecurityService),
		scans:         make(map[int]*models.SecurityScan),
		alerts:        make(map[int]*models.SecurityAlert),
		reports:       make(map[int]*models.SecurityReport),
		nextUserID:    1,
		nextServiceID: 1,
		nextScanID:    1,
		nextAlertID:   1,
		nextReportID:  1,
	}

	s.seedDefaultServices()

	return s
}

func (s *MemStorage) seedDefaultServices() {
	defaults := []models.InsertSecurityService{
		{
			Name:        "Basic System Scan",
			Description: "Scans your system for basic vulnerabilities and security issues.",
			Price:       "9.99",
		},
		{
			Name:        "Advanced Threat Detection",
			Description: "Deep analysis of potential security threats with real-time monitoring.",
			Price:       "29.99",
		},
		{
			Name:        "Quantum Encryption Shield",
			Description: "State-of-the-art encryption using quantum algorithms to protect your data.",
			Price:       "49.99",
		},
		{
			Name:        "Secure Network Analysis",
			Description: "Comprehensive evaluation of network security and potential vulnerabilities.",
			Price:       "39.99",
		},
	}

	for i := range defaults {
		s.CreateSecurityService(&defaults[i])
	}
}

func (s *MemStorage) GetUser(id int) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, false
	}

	out := *u

	return &out, true
}

func (s *MemStorage) GetUserByUsername(username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, true
		}
	}

	return nil, false
}

func (s *MemStorage) CreateUser(insert *models.InsertUser) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := insert.Role
	if role == "" {
		role = "user"
	}

	subscription := insert.Subscription
	if subscription == "" {
		subscription = "free"
	}

	user := &models.User{
		ID:           s.nextUserID,
		Username:     insert.Username,
		Password:     insert.Password,
		Name:         insert.Name,
		Email:        insert.Email,
		Role:         role,
		Subscription: subscription,
		CreatedAt:    time.Now(),
	}
	s.nextUserID++

	s.users[user.ID] = user
	out := *user

	return &out
}

func (s *MemStorage) GetSecurityServices() []*models.SecurityService {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.SecurityService, 0, len(s.services))

	for _, svc := range s.services {
		c := *svc
		out = append(out, &c)
	}

	return out
}

func (s *MemStorage) GetSecurityService(id int) (*models.SecurityService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, false
	}

	out := *svc

	return &out, true
}

func (s *MemStorage) CreateSecurityService(insert *models.InsertSecurityService) *models.SecurityService {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := true
	if insert.Active != nil {
		active = *insert.Active
	}

	svc := &models.SecurityService{
		ID:          s.nextServiceID,
		Name:        insert.Name,
		Description: insert.Description,
		Price:       insert.Price,
		Active:      active,
	}
	s.nextServiceID++

	s.services[svc.ID] = svc
	out := *svc

	return &out
}

// GetSecurityScans lists scans, filtered by user when userID is non-zero.
func (s *MemStorage) GetSecurityScans(userID int) []*models.SecurityScan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SecurityScan

	for _, scan := range s.scans {
		if userID != 0 && scan.UserID != userID {
			continue
		}

		c := *scan
		out = append(out, &c)
	}

	return out
}

func (s *MemStorage) GetSecurityScan(id int) (*models.SecurityScan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, false
	}

	out := *scan

	return &out, true
}

func (s *MemStorage) CreateSecurityScan(insert *models.InsertSecurityScan) *models.SecurityScan {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := insert.Status
	if status == "" {
		status = "pending"
	}

	scan := &models.SecurityScan{
		ID:        s.nextScanID,
		UserID:    insert.UserID,
		ScanType:  insert.ScanType,
		Status:    status,
		Result:    insert.Result,
		StartedAt: time.Now(),
	}
	s.nextScanID++

	s.scans[scan.ID] = scan
	out := *scan

	return &out
}

func (s *MemStorage) UpdateSecurityScan(id int, update ScanUpdate) (*models.SecurityScan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scan, ok := s.scans[id]
	if !ok {
		return nil, false
	}

	if update.Status != "" {
		scan.Status = update.Status
	}

	if update.Result != "" {
		scan.Result = update.Result
	}

	if update.CompletedAt {
		now := time.Now()
		scan.CompletedAt = &now
	}

	out := *scan

	return &out, true
}

func (s *MemStorage) GetSecurityAlerts(userID int) []*models.SecurityAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SecurityAlert

	for _, alert := range s.alerts {
		if userID != 0 && alert.UserID != userID {
			continue
		}

		c := *alert
		out = append(out, &c)
	}

	return out
}

func (s *MemStorage) GetSecurityAlert(id int) (*models.SecurityAlert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alert, ok := s.alerts[id]
	if !ok {
		return nil, false
	}

	out := *alert

	return &out, true
}

func (s *MemStorage) CreateSecurityAlert(insert *models.InsertSecurityAlert) *models.SecurityAlert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert := &models.SecurityAlert{
		ID:        s.nextAlertID,
		UserID:    insert.UserID,
		Level:     insert.Level,
		Message:   insert.Message,
		Source:    insert.Source,
		Timestamp: time.Now(),
		Resolved:  insert.Resolved,
	}
	s.nextAlertID++

	s.alerts[alert.ID] = alert
	out := *alert

	return &out
}

func (s *MemStorage) ResolveSecurityAlert(id int) (*models.SecurityAlert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[id]
	if !ok {
		return nil, false
	}

	alert.Resolved = true
	out := *alert

	return &out, true
}

func (s *MemStorage) GetSecurityReports(userID int) []*models.SecurityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SecurityReport

	for _, report := range s.reports {
		if userID != 0 && report.UserID != userID {
			continue
		}

		c := *report
		out = append(out, &c)
	}

	return out
}

func (s *MemStorage) GetSecurityReport(id int) (*models.SecurityReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, false
	}

	out := *report

	return &out, true
}

func (s *MemStorage) CreateSecurityReport(insert *models.InsertSecurityReport) *models.SecurityReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &models.SecurityReport{
		ID:          s.nextReportID,
		UserID:      insert.UserID,
		Title:       insert.Title,
		Summary:     insert.Summary,
		ThreatLevel: insert.ThreatLevel,
		CreatedAt:   time.Now(),
	}
	s.nextReportID++

	s.reports[report.ID] = report
	out := *report

	return &out
}
