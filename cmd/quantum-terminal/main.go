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

// Command quantum-terminal runs the dashboard backend: REST API, WebSocket
// streams, and the simulated device fleet.
package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantumshield/quantum-terminal/pkg/api"
	"github.com/quantumshield/quantum-terminal/pkg/assistant"
	"github.com/quantumshield/quantum-terminal/pkg/config"
	"github.com/quantumshield/quantum-terminal/pkg/devicesim"
	"github.com/quantumshield/quantum-terminal/pkg/logger"
	"github.com/quantumshield/quantum-terminal/pkg/models"
	"github.com/quantumshield/quantum-terminal/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to the JSON config file")
	demoFleet := flag.Bool("demo-fleet", true, "Register a small demo device fleet at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simOpts := []devicesim.Option{
		devicesim.WithLogger(log),
		devicesim.WithTimeScale(cfg.Simulation.TimeScale),
	}
	if cfg.Simulation.Seed != 0 {
		simOpts = append(simOpts, devicesim.WithRandSource(rand.NewSource(cfg.Simulation.Seed)))
	}

	sim := devicesim.NewService(simOpts...)
	defer sim.Close()

	if *demoFleet {
		registerDemoFleet(sim)
	}

	store := storage.NewMemStorage()

	chat := assistant.NewRouter(log,
		&assistant.Unavailable{ProviderName: "Claude"},
		&assistant.Unavailable{ProviderName: "Gemini"},
	)

	server := api.NewServer(log, store, sim, chat)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      server.Router(),
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Duration(cfg.Server.IdleTimeout),
	}

	go func() {
		log.Info().Str("addr", cfg.Server.ListenAddress).Msg("quantum-terminal listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// registerDemoFleet seeds a handful of devices so the dashboard has live data
// without any API calls.
func registerDemoFleet(sim *devicesim.Service) {
	now := time.Now()

	devices := []*models.Device{
		{
			ID:             "device-demo-phone",
			Name:           "Quantum Phone",
			Class:          models.DeviceClassMobile,
			Model:          "QS Phone 12",
			OSVersion:      "QOS 17.2",
			ConnectionType: models.ConnectionWiFi,
			BatteryLevel:   78,
			SignalStrength: 4,
			IP:             "192.168.1.42",
			MAC:            "5E:2A:91:C4:8B:10",
			Permissions:    []string{"metrics", "operations"},
			Features:       []string{"scan", "update", "optimize", "diagnose"},
			LastSeen:       now,
			Status:         models.DeviceStatusConnected,
		},
		{
			ID:             "device-demo-laptop",
			Name:           "Quantum Workstation",
			Class:          models.DeviceClassLaptop,
			Model:          "QS Book Pro",
			OSVersion:      "QOS Desktop 11",
			ConnectionType: models.ConnectionWiFi,
			BatteryLevel:   100,
			SignalStrength: 5,
			IP:             "192.168.1.17",
			MAC:            "0A:63:DE:77:F2:41",
			Permissions:    []string{"metrics", "operations"},
			Features:       []string{"scan", "update", "optimize", "diagnose"},
			LastSeen:       now,
			Status:         models.DeviceStatusConnected,
		},
	}

	for _, d := range devices {
		sim.RegisterDevice(d)
	}
}
