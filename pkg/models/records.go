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

package models

import "time"

// Dashboard records held by the in-memory store.

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Password     string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Subscription string    `json:"subscription"`
	CreatedAt    time.Time `json:"created_at"`
}

type InsertUser struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	Subscription string `json:"subscription,omitempty"`
}

type SecurityService struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Active      bool   `json:"active"`
}

type InsertSecurityService struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Active      *bool  `json:"active,omitempty"`
}

type SecurityScan struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	ScanType    string     `json:"scan_type"`
	Status      string     `json:"status"`
	Result      string     `json:"result,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type InsertSecurityScan struct {
	UserID   int    `json:"user_id"`
	ScanType string `json:"scan_type"`
	Status   string `json:"status,omitempty"`
	Result   string `json:"result,omitempty"`
}

type SecurityAlert struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

type InsertSecurityAlert struct {
	UserID   int    `json:"user_id"`
	Level    string `json:"level"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Resolved bool   `json:"resolved,omitempty"`
}

type SecurityReport struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	ThreatLevel string    `json:"threat_level"`
	CreatedAt   time.Time `json:"created_at"`
}

type InsertSecurityReport struct {
	UserID      int    `json:"user_id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	ThreatLevel string `json:"threat_level"`
}

// SystemStatusFlag is one entry of the fixed system status board.
type SystemStatusFlag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}
