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

// CPUMetrics holds simulated processor telemetry for a device.
type CPUMetrics struct {
	UsagePercent float64 `json:"usage_percent"`
	Temperature  float64 `json:"temperature"`
	Cores        int     `json:"cores"`
}

// MemoryMetrics holds simulated memory telemetry in KB.
// UsedKB + FreeKB always equals TotalKB.
type MemoryMetrics struct {
	TotalKB float64 `json:"total_kb"`
	UsedKB  float64 `json:"used_kb"`
	FreeKB  float64 `json:"free_kb"`
}

// StorageMetrics holds simulated storage telemetry in KB.
// UsedKB + FreeKB always equals TotalKB.
type StorageMetrics struct {
	TotalKB float64 `json:"total_kb"`
	UsedKB  float64 `json:"used_kb"`
	FreeKB  float64 `json:"free_kb"`
}

// NetworkMetrics holds simulated link telemetry. Rates are in Mbps, latency in ms.
type NetworkMetrics struct {
	DownloadMbps float64 `json:"download_mbps"`
	UploadMbps   float64 `json:"upload_mbps"`
	LatencyMs    float64 `json:"latency_ms"`
}

// BatteryMetrics holds simulated battery telemetry. TimeRemaining is minutes
// until empty and is only tracked while discharging.
type BatteryMetrics struct {
	Level         float64  `json:"level"`
	Charging      bool     `json:"charging"`
	TimeRemaining *float64 `json:"time_remaining,omitempty"`
}

// DeviceMetrics is the full synthetic telemetry snapshot for one device.
type DeviceMetrics struct {
	CPU     CPUMetrics      `json:"cpu"`
	Memory  MemoryMetrics   `json:"memory"`
	Storage StorageMetrics  `json:"storage"`
	Network NetworkMetrics  `json:"network"`
	Battery *BatteryMetrics `json:"battery,omitempty"`
}
