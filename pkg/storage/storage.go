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

// Package storage holds the in-memory store backing the dashboard REST API.
// Nothing survives a process restart.
package storage

import (
	"github.com/quantumshield/quantum-terminal/pkg/models"
)

// Storage is the contract for all dashboard business entities.
type Storage interface {
	GetUser(id int) (*models.User, bool)
	GetUserByUsername(username string) (*models.User, bool)
	CreateUser(user *models.InsertUser) *models.User

	GetSecurityServices() []*models.SecurityService
	GetSecurityService(id int) (*models.SecurityService, bool)
	CreateSecurityService(service *models.InsertSecurityService) *models.SecurityService

	GetSecurityScans(userID int) []*models.SecurityScan
	GetSecurityScan(id int) (*models.SecurityScan, bool)
	CreateSecurityScan(scan *models.InsertSecurityScan) *models.SecurityScan
	UpdateSecurityScan(id int, update ScanUpdate) (*models.SecurityScan, bool)

	GetSecurityAlerts(userID int) []*models.SecurityAlert
	GetSecurityAlert(id int) (*models.SecurityAlert, bool)
	CreateSecurityAlert(alert *models.InsertSecurityAlert) *models.SecurityAlert
	ResolveSecurityAlert(id int) (*models.SecurityAlert, bool)

	GetSecurityReports(userID int) []*models.SecurityReport
	GetSecurityReport(id int) (*models.SecurityReport, bool)
	CreateSecurityReport(report *models.InsertSecurityReport) *models.SecurityReport
}

// ScanUpdate carries the fields a scan completion may change.
type ScanUpdate struct {
	Status      string
	Result      string
	CompletedAt bool
}
