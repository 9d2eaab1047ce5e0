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

import "errors"

var (
	// ErrDeviceNotFound is returned when an operation targets an unregistered device.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrDeviceNotConnected is returned when the target device is registered but
	// not in connected status.
	ErrDeviceNotConnected = errors.New("device not connected")

	// ErrUnsupportedOperationType is returned for operation types outside the
	// scan/update/optimize/diagnose vocabulary.
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
)
