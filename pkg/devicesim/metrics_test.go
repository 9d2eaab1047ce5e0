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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumshield/quantum-terminal/pkg/models"
)

func TestInitialMetricsByClass(t *testing.T) {
	tests := []struct {
		class         models.DeviceClass
		wantCores     int
		wantMemoryKB  float64
		wantStorageKB float64
	}{
		{models.DeviceClassMobile, 6, 6 * 1024, 128 * 1024},
		{models.DeviceClassLaptop, 8, 16 * 1024, 512 * 1024},
		{models.DeviceClassTablet, 8, 8 * 1024, 256 * 1024},
		{models.DeviceClassIoT, 4, 4 * 1024, 64 * 1024},
		{models.DeviceClassOther, 4, 4 * 1024, 64 * 1024},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			s := newTestService(t)
			device := testDevice("dev-1", tt.class)

			m := s.initialMetrics(device)

			assert.Equal(t, tt.wantCores, m.CPU.Cores)
			assert.Equal(t, tt.wantMemoryKB, m.Memory.TotalKB)
			assert.Equal(t, tt.wantStorageKB, m.Storage.TotalKB)

			assert.InDelta(t, m.Memory.TotalKB, m.Memory.UsedKB+m.Memory.FreeKB, 1e-6)
			assert.InDelta(t, m.Storage.TotalKB, m.Storage.UsedKB+m.Storage.FreeKB, 1e-6)

			assert.GreaterOrEqual(t, m.CPU.UsagePercent, 0.0)
			assert.LessOrEqual(t, m.CPU.UsagePercent, 100.0)
		})
	}
}

func TestInitialMetricsBatteryPresence(t *testing.T) {
	s := newTestService(t)

	// The generic profile only carries a battery when the device reports one.
	withBattery := testDevice("dev-1", models.DeviceClassIoT)
	withBattery.BatteryLevel = 50
	assert.NotNil(t, s.initialMetrics(withBattery).Battery)

	withoutBattery := testDevice("dev-2", models.DeviceClassIoT)
	withoutBattery.BatteryLevel = 0
	assert.Nil(t, s.initialMetrics(withoutBattery).Battery)

	// Mobile devices always have one, defaulting the level when unreported.
	phone := testDevice("dev-3", models.DeviceClassMobile)
	phone.BatteryLevel = 0
	battery := s.initialMetrics(phone).Battery
	require.NotNil(t, battery)
	assert.InDelta(t, 80, battery.Level, 1e-6)
}

func TestDriftTickKeepsInvariants(t *testing.T) {
	s := newTestService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))

	for i := 0; i < 100; i++ {
		require.True(t, s.driftTick("dev-1"))

		m, ok := s.GetDeviceMetrics("dev-1")
		require.True(t, ok)

		assert.GreaterOrEqual(t, m.CPU.UsagePercent, float64(cpuUsageMin))
		assert.LessOrEqual(t, m.CPU.UsagePercent, float64(cpuUsageMax))
		assert.GreaterOrEqual(t, m.CPU.Temperature, float64(cpuTempMin))
		assert.LessOrEqual(t, m.CPU.Temperature, float64(cpuTempMax))

		assert.GreaterOrEqual(t, m.Memory.UsedKB, float64(memoryUsedFloorKB))
		assert.LessOrEqual(t, m.Memory.UsedKB, m.Memory.TotalKB-memoryUsedMarginKB)
		assert.InDelta(t, m.Memory.TotalKB, m.Memory.UsedKB+m.Memory.FreeKB, 1e-6)

		assert.GreaterOrEqual(t, m.Storage.UsedKB, float64(storageUsedFloorKB))
		assert.LessOrEqual(t, m.Storage.UsedKB, m.Storage.TotalKB-storageUsedMarginKB)
		assert.InDelta(t, m.Storage.TotalKB, m.Storage.UsedKB+m.Storage.FreeKB, 1e-6)

		assert.GreaterOrEqual(t, m.Network.DownloadMbps, networkRateFloorMbps)
		assert.GreaterOrEqual(t, m.Network.UploadMbps, networkRateFloorMbps)
		assert.GreaterOrEqual(t, m.Network.LatencyMs, float64(latencyFloorMs))

		require.NotNil(t, m.Battery)
		assert.GreaterOrEqual(t, m.Battery.Level, float64(batteryLevelMin))
		assert.LessOrEqual(t, m.Battery.Level, float64(batteryLevelMax))

		if m.Battery.Charging {
			assert.Nil(t, m.Battery.TimeRemaining)
		} else {
			require.NotNil(t, m.Battery.TimeRemaining)
			assert.GreaterOrEqual(t, *m.Battery.TimeRemaining, 10.0)
		}
	}
}

func TestDriftTickUnknownDevice(t *testing.T) {
	s := newTestService(t)

	assert.False(t, s.driftTick("missing"))
}

func TestDriftTickStopsAfterUnregister(t *testing.T) {
	s := newTestService(t)
	s.RegisterDevice(testDevice("dev-1", models.DeviceClassMobile))
	s.UnregisterDevice("dev-1")

	assert.False(t, s.driftTick("dev-1"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(2, 5, 95))
	assert.Equal(t, 95.0, clamp(120, 5, 95))
	assert.Equal(t, 50.0, clamp(50, 5, 95))
}
