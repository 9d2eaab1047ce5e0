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

// Synthetic command result payloads. One variant per command type/target pair;
// the field set for a given variant is fixed even though values are randomized.
// JSON names are camelCase because dashboard clients consume these payloads
// under the wire shape of the original platform.

// IssueCounts buckets findings by severity.
type IssueCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// ScanFinding is one detail row inside a scan or diagnose result.
type ScanFinding struct {
	ID                string `json:"id"`
	Severity          string `json:"severity"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	RecommendedAction string `json:"recommendedAction"`
}

// SystemScanResult is produced by a scan command targeting "system".
type SystemScanResult struct {
	Timestamp string        `json:"timestamp"`
	Issues    IssueCounts   `json:"issues"`
	Details   []ScanFinding `json:"details"`
}

// SecurityScanResult is produced by a scan command targeting "security".
type SecurityScanResult struct {
	Timestamp            string        `json:"timestamp"`
	ThreatLevel          string        `json:"threatLevel"`
	Vulnerabilities      int           `json:"vulnerabilities"`
	SuspiciousActivities int           `json:"suspiciousActivities"`
	Details              []ScanFinding `json:"details"`
}

// StorageScanCategories buckets reclaimable storage by kind, in MB.
type StorageScanCategories struct {
	Temporary int `json:"temporary"`
	Duplicate int `json:"duplicate"`
	Unused    int `json:"unused"`
	Cache     int `json:"cache"`
}

// StorageScanResult is produced by a scan command targeting "storage".
type StorageScanResult struct {
	Timestamp        string                `json:"timestamp"`
	TotalAnalyzed    int                   `json:"totalAnalyzed"`
	RedundantFiles   int                   `json:"redundantFiles"`
	PotentialSavings int                   `json:"potentialSavings"`
	Categories       StorageScanCategories `json:"categories"`
}

// GenericScanResult is produced by scan commands with any other target.
type GenericScanResult struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Issues    int    `json:"issues"`
}

// UpdateResult is produced by update commands.
type UpdateResult struct {
	Timestamp       string `json:"timestamp"`
	PreviousVersion string `json:"previousVersion"`
	NewVersion      string `json:"newVersion"`
	ChangesApplied  int    `json:"changesApplied"`
	Status          string `json:"status"`
	RequiresRestart bool   `json:"requiresRestart"`
}

// MemoryOptimizeResult is produced by an optimize command targeting "memory".
type MemoryOptimizeResult struct {
	Timestamp        string   `json:"timestamp"`
	BeforeUsage      int      `json:"beforeUsage"`
	AfterUsage       int      `json:"afterUsage"`
	Improvement      string   `json:"improvement"`
	ActionsPerformed []string `json:"actionsPerformed"`
}

// StorageOptimizeResult is produced by an optimize command targeting "storage".
type StorageOptimizeResult struct {
	Timestamp        string   `json:"timestamp"`
	SpaceReclaimed   string   `json:"spaceReclaimed"`
	FilesRemoved     int      `json:"filesRemoved"`
	Optimization     string   `json:"optimization"`
	ActionsPerformed []string `json:"actionsPerformed"`
}

// PerformanceOptimizeResult is produced by an optimize command targeting "performance".
type PerformanceOptimizeResult struct {
	Timestamp          string   `json:"timestamp"`
	OverallImprovement string   `json:"overallImprovement"`
	StartupTime        string   `json:"startupTime"`
	Responsiveness     string   `json:"responsiveness"`
	ActionsPerformed   []string `json:"actionsPerformed"`
}

// GenericOptimizeResult is produced by optimize commands with any other target.
type GenericOptimizeResult struct {
	Timestamp   string `json:"timestamp"`
	Improvement string `json:"improvement"`
	Status      string `json:"status"`
}

// DiagnoseResult is produced by diagnose commands.
type DiagnoseResult struct {
	Timestamp       string      `json:"timestamp"`
	DiagnosticRun   string      `json:"diagnosticRun"`
	Issues          IssueCounts `json:"issues"`
	Recommendations []string    `json:"recommendations"`
}

// GenericCommandResult is produced by any command type without a dedicated variant.
type GenericCommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
