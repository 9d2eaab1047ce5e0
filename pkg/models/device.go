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

// Package models defines the shared data types for the quantum-terminal services.
package models

import "time"

// DeviceClass categorizes a managed endpoint.
type DeviceClass string

const (
	DeviceClassMobile DeviceClass = "mobile"
	DeviceClassLaptop DeviceClass = "laptop"
	DeviceClassTablet DeviceClass = "tablet"
	DeviceClassIoT    DeviceClass = "iot"
	DeviceClassOther  DeviceClass = "other"
)

// ConnectionType is the medium a device is reached over.
type ConnectionType string

const (
	ConnectionBluetooth ConnectionType = "bluetooth"
	ConnectionWiFi      ConnectionType = "wifi"
	ConnectionUSB       ConnectionType = "usb"
	ConnectionCloud     ConnectionType = "cloud"
)

// DeviceStatus is the connectivity state of a device.
type DeviceStatus string

const (
	DeviceStatusConnected    DeviceStatus = "connected"
	DeviceStatusConnecting   DeviceStatus = "connecting"
	DeviceStatusDisconnected DeviceStatus = "disconnected"
)

// Device represents a managed endpoint registered with the simulation engine.
type Device struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Class          DeviceClass    `json:"class"`
	Model          string         `json:"model,omitempty"`
	OSVersion      string         `json:"os_version,omitempty"`
	ConnectionType ConnectionType `json:"connection_type"`
	BatteryLevel   float64        `json:"battery_level,omitempty"`
	SignalStrength int            `json:"signal_strength,omitempty"`
	IP             string         `json:"ip,omitempty"`
	MAC            string         `json:"mac,omitempty"`
	Permissions    []string       `json:"permissions,omitempty"`
	Features       []string       `json:"features,omitempty"`
	LastSeen       time.Time      `json:"last_seen"`
	Status         DeviceStatus   `json:"status"`
}
