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

// Package config loads the service configuration from a JSON file with
// defaults applied for anything the file omits.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quantumshield/quantum-terminal/pkg/logger"
)

var (
	errConfigNil             = errors.New("config must not be nil")
	errListenAddressRequired = errors.New("server.listen_address is required")
	errReadTimeoutInvalid    = errors.New("server.read_timeout must be a positive duration")
	errWriteTimeoutInvalid   = errors.New("server.write_timeout must be a positive duration")
	errIdleTimeoutInvalid    = errors.New("server.idle_timeout must be a positive duration")
	errTimeScaleInvalid      = errors.New("simulation.time_scale must be > 0")
	errConfigPathIsDirectory = errors.New("config path is a directory")
)

// ServerConfig holds HTTP listener settings. Timeouts are duration strings
// ("10s", "1m30s").
type ServerConfig struct {
	ListenAddress string `json:"listen_address"`
	ReadTimeout   string `json:"read_timeout"`
	WriteTimeout  string `json:"write_timeout"`
	IdleTimeout   string `json:"idle_timeout"`
}

// SimulationConfig tunes the device-operation engine.
type SimulationConfig struct {
	// TimeScale compresses simulated durations; 1.0 runs the scripted
	// timeline in real time.
	TimeScale float64 `json:"time_scale"`
	// Seed fixes the random source when non-zero.
	Seed int64 `json:"seed"`
}

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Simulation SimulationConfig `json:"simulation"`
	Logging    logger.Config    `json:"logging"`
}

func (c *Config) applyDefaults() {
	c.Server.ListenAddress = ":8080"
	c.Server.ReadTimeout = "10s"
	c.Server.WriteTimeout = "30s"
	c.Server.IdleTimeout = "30s"
	c.Simulation.TimeScale = 1.0
	c.Logging = *logger.DefaultConfig()
}

// Validate ensures the configuration is well-formed.
func (c *Config) Validate() error {
	if c == nil {
		return errConfigNil
	}

	if c.Server.ListenAddress == "" {
		return errListenAddressRequired
	}

	if err := validateDuration(c.Server.ReadTimeout, errReadTimeoutInvalid); err != nil {
		return err
	}

	if err := validateDuration(c.Server.WriteTimeout, errWriteTimeoutInvalid); err != nil {
		return err
	}

	if err := validateDuration(c.Server.IdleTimeout, errIdleTimeoutInvalid); err != nil {
		return err
	}

	if c.Simulation.TimeScale <= 0 {
		return errTimeScaleInvalid
	}

	return nil
}

func validateDuration(value string, invalid error) error {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return invalid
	}

	return nil
}

// Load reads configuration from path, or returns defaults when path is empty
// or missing. Env vars QT_LISTEN_ADDR and LOG_LEVEL override the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	if path != "" {
		info, err := os.Stat(path)

		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file falls back to defaults.
		case err != nil:
			return nil, fmt.Errorf("failed to inspect config file %s: %w", path, err)
		case info.IsDir():
			return nil, fmt.Errorf("%w: %s", errConfigPathIsDirectory, path)
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}

			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if addr := os.Getenv("QT_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddress = addr
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Duration parses one of the validated duration fields.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
