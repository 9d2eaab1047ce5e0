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

package devicesim

import (
	"time"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

// Telemetry bounds. Memory and storage drift recompute free from total-used so
// the used+free==total invariant holds after every tick.
const (
	cpuUsageMin = 5
	cpuUsageMax = 95
	cpuTempMin  = 30
	cpuTempMax  = 85

	memoryUsedFloorKB   = 512
	memoryUsedMarginKB  = 256
	storageUsedFloorKB  = 1024
	storageUsedMarginKB = 1024

	networkRateFloorMbps = 0.1
	latencyFloorMs       = 5

	batteryLevelMin = 1
	batteryLevelMax = 100

	driftIntervalBase   = 5 * time.Second
	driftIntervalJitter = 5 * time.Second
)

// initialMetrics seeds a telemetry baseline sized by device class. Unknown
// classes get the conservative default profile; the default profile only
// carries a battery record when the device reports a battery level.
func (s *Service) initialMetrics(device *models.Device) *models.DeviceMetrics {
	rnd := s.rng.Float64

	switch device.Class {
	case models.DeviceClassMobile:
		return &models.DeviceMetrics{
			CPU:     models.CPUMetrics{UsagePercent: rnd() * 40, Temperature: 35 + rnd()*15, Cores: 6},
			Memory:  newSizedMetrics(6*1024, 2*1024+rnd()*1024),
			Storage: models.StorageMetrics(newSizedMetrics(128*1024, 64*1024+rnd()*32*1024)),
			Network: models.NetworkMetrics{DownloadMbps: rnd() * 10, UploadMbps: rnd() * 5, LatencyMs: 20 + rnd()*30},
			Battery: s.initialBattery(device, 80, 0.7, 180, 120),
		}
	case models.DeviceClassLaptop:
		return &models.DeviceMetrics{
			CPU:     models.CPUMetrics{UsagePercent: rnd() * 30, Temperature: 40 + rnd()*20, Cores: 8},
			Memory:  newSizedMetrics(16*1024, 6*1024+rnd()*4*1024),
			Storage: models.StorageMetrics(newSizedMetrics(512*1024, 256*1024+rnd()*128*1024)),
			Network: models.NetworkMetrics{DownloadMbps: rnd() * 50, UploadMbps: rnd() * 20, LatencyMs: 10 + rnd()*20},
			Battery: s.initialBattery(device, 90, 0.5, 240, 180),
		}
	case models.DeviceClassTablet:
		return &models.DeviceMetrics{
			CPU:     models.CPUMetrics{UsagePercent: rnd() * 35, Temperature: 38 + rnd()*17, Cores: 8},
			Memory:  newSizedMetrics(8*1024, 3*1024+rnd()*2*1024),
			Storage: models.StorageMetrics(newSizedMetrics(256*1024, 128*1024+rnd()*64*1024)),
			Network: models.NetworkMetrics{DownloadMbps: rnd() * 30, UploadMbps: rnd() * 15, LatencyMs: 15 + rnd()*25},
			Battery: s.initialBattery(device, 85, 0.6, 210, 150),
		}
	default:
		m := &models.DeviceMetrics{
			CPU:     models.CPUMetrics{UsagePercent: rnd() * 50, Temperature: 45 + rnd()*15, Cores: 4},
			Memory:  newSizedMetrics(4*1024, 2*1024+rnd()*1024),
			Storage: models.StorageMetrics(newSizedMetrics(64*1024, 32*1024+rnd()*16*1024)),
			Network: models.NetworkMetrics{DownloadMbps: rnd() * 20, UploadMbps: rnd() * 10, LatencyMs: 25 + rnd()*35},
		}

		// Battery-less profile unless the device reports one.
		if device.BatteryLevel > 0 {
			m.Battery = s.initialBattery(device, device.BatteryLevel, 0.8, 120, 120)
		}

		return m
	}
}

func newSizedMetrics(totalKB, usedKB float64) models.MemoryMetrics {
	return models.MemoryMetrics{TotalKB: totalKB, UsedKB: usedKB, FreeKB: totalKB - usedKB}
}

func (s *Service) initialBattery(
	device *models.Device, defaultLevel, chargingThreshold, baseMinutes, jitterMinutes float64) *models.BatteryMetrics {
	level := device.BatteryLevel
	if level <= 0 {
		level = defaultLevel
	}

	remaining := baseMinutes + s.rng.Float64()*jitterMinutes

	return &models.BatteryMetrics{
		Level:         level,
		Charging:      s.rng.Float64() > chargingThreshold,
		TimeRemaining: &remaining,
	}
}

// runDriftLoop is the simulation's only continuously-running process. It
// reschedules itself for a random delay in [5s,10s) after each tick and stops
// when the device is unregistered.
func (s *Service) runDriftLoop(deviceID string, stop chan struct{}) {
	for {
		delay := driftIntervalBase + time.Duration(s.rng.Float64()*float64(driftIntervalJitter))

		timer := time.NewTimer(s.scale(delay))

		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		if !s.driftTick(deviceID) {
			return
		}
	}
}

// driftTick perturbs one device's metrics within bounds and notifies metrics
// listeners with the new snapshot. Returns false once the device is gone.
func (s *Service) driftTick(deviceID string) bool {
	s.mu.Lock()

	if _, ok := s.devices[deviceID]; !ok {
		s.mu.Unlock()
		return false
	}

	m, ok := s.metrics[deviceID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	rnd := s.rng.Float64

	m.CPU.UsagePercent = clamp(m.CPU.UsagePercent+(rnd()*20-10), cpuUsageMin, cpuUsageMax)
	m.CPU.Temperature = clamp(m.CPU.Temperature+(rnd()*6-3), cpuTempMin, cpuTempMax)

	m.Memory.UsedKB = clamp(m.Memory.UsedKB+(rnd()*512-256), memoryUsedFloorKB, m.Memory.TotalKB-memoryUsedMarginKB)
	m.Memory.FreeKB = m.Memory.TotalKB - m.Memory.UsedKB

	m.Storage.UsedKB = clamp(m.Storage.UsedKB+(rnd()*256-128), storageUsedFloorKB, m.Storage.TotalKB-storageUsedMarginKB)
	m.Storage.FreeKB = m.Storage.TotalKB - m.Storage.UsedKB

	m.Network.DownloadMbps = max(networkRateFloorMbps, m.Network.DownloadMbps+(rnd()*5-2.5))
	m.Network.UploadMbps = max(networkRateFloorMbps, m.Network.UploadMbps+(rnd()*3-1.5))
	m.Network.LatencyMs = max(latencyFloorMs, m.Network.LatencyMs+(rnd()*10-5))

	if m.Battery != nil {
		s.driftBattery(m.Battery)
	}

	snapshot := cloneMetrics(m)
	listeners := s.metricsListenersFor(deviceID)
	s.mu.Unlock()

	s.notifyMetrics(deviceID, listeners, snapshot)

	return true
}

func (s *Service) driftBattery(b *models.BatteryMetrics) {
	delta := s.rng.Float64() * 2
	if !b.Charging {
		delta = -delta
	}

	b.Level = clamp(b.Level+delta, batteryLevelMin, batteryLevelMax)

	// 10% chance the charger was plugged or pulled.
	if s.rng.Float64() > 0.9 {
		b.Charging = !b.Charging
	}

	if b.Charging {
		b.TimeRemaining = nil
	} else {
		prev := 120.0
		if b.TimeRemaining != nil {
			prev = *b.TimeRemaining
		}

		remaining := max(10, prev-s.rng.Float64()*10)
		b.TimeRemaining = &remaining
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
